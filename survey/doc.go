// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey loads the two-sheet survey workbook and answers view queries
over it.

# Tables

A workbook holds two sheets with the same shape: a label column followed by
one column per country. The problem sheet is keyed by "Most Important
Problem", the orientation sheet by "Left-Right Orientation". Cell values are
proportions; a column whose maximum exceeds 1 is treated as percentages and
divided by 100.

	ds, err := survey.Load("Data2Add.xlsx", survey.DefaultLoadOptions())

# Views

All view functions are pure and never mutate the tables they read:

	single, err := survey.ExtractSingle(ds.Problems, "DE", []string{"Inflation"})
	cmp, err := survey.ExtractComparison(ds.Orientation, "DE", "FR", labels)

Comparisons are returned in long format (label, country, proportion) and can
be pivoted back with ComparisonView.Pivot.

# Errors

Every failure matches one of ErrMissingResource, ErrSchema,
ErrNoCommonCountries or ErrInvalidSelection under errors.Is.
*/
package survey
