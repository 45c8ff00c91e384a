// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/political-dashboard/db"
	"github.com/danielhkuo/political-dashboard/metrics"
	"github.com/danielhkuo/political-dashboard/snapshot"
	"github.com/danielhkuo/political-dashboard/survey"
	tu "github.com/danielhkuo/political-dashboard/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file="))
	err := cmd.Execute()
	return out.String(), err
}

func TestCountriesCommand(t *testing.T) {
	path := tu.WriteSampleWorkbook(t)

	out, err := run(t, "countries", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "DE\nFR\nIT\n", out)
}

func TestCountriesCommand_MissingFile(t *testing.T) {
	_, err := run(t, "countries", "-f", filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, survey.ErrMissingResource))
}

func TestExportCommand(t *testing.T) {
	path := tu.WriteSampleWorkbook(t)
	out := filepath.Join(t.TempDir(), "export.xlsx")

	stdout, err := run(t, "export", "-f", path, "-o", out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "wrote "))

	ds, err := survey.Load(out, survey.DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"DE", "FR", "IT"}, ds.Countries())
}

func TestCountLoads(t *testing.T) {
	m := metrics.New(false)
	path := tu.WriteSampleWorkbook(t)

	ok := countLoads(snapshot.FileLoader(path, survey.DefaultLoadOptions()), m)
	_, err := ok(context.Background())
	require.NoError(t, err)

	bad := countLoads(snapshot.FileLoader(filepath.Join(t.TempDir(), "nope.xlsx"), survey.DefaultLoadOptions()), m)
	_, err = bad(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReloadsTotal.WithLabelValues("error")))
}

func TestRecordSnapshot(t *testing.T) {
	conn := tu.SetupTestDB(t)
	require.NoError(t, db.CreateSchema(conn))
	archive := db.NewArchive(conn)

	ds, err := survey.Load(tu.WriteSampleWorkbook(t), survey.DefaultLoadOptions())
	require.NoError(t, err)

	// the publishing request may already be gone
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	record := recordSnapshot(archive)
	record(ctx, ds)
	record(context.Background(), ds)

	list, err := archive.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
