package dataset

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4adex/hilabs/internal/domain/linkage"
	"github.com/4adex/hilabs/internal/domain/roster"
	"github.com/4adex/hilabs/internal/domain/values"
	"github.com/4adex/hilabs/internal/infrastructure/telemetry"
	"github.com/4adex/hilabs/internal/service/quality"
)

func newTestWriter() *Writer {
	return NewWriter(telemetry.NewNopLogger())
}

func TestWriteFinal(t *testing.T) {
	years := 12
	records := []roster.ProviderRecord{
		{
			ProviderID:      "P001",
			NPI:             "1234567890",
			FirstName:       "John",
			LastName:        "Smith",
			FullName:        "John Smith, MD",
			PracticeZip:     values.NewZipCode("94103"),
			PracticePhone:   values.NewPhone("5551234567"),
			YearsInPractice: &years,
			LicenseStatus:   roster.LicenseValid,
			NPIPresent:      true,
		},
		{
			ProviderID:    "P002",
			LicenseStatus: roster.LicenseNotFound,
			SuggestedNPI:  "9876543210",
			Outlier:       true,
		},
	}

	path := filepath.Join(t.TempDir(), "final.csv")
	require.NoError(t, newTestWriter().WriteFinal(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, finalHeader, rows[0])

	header := rows[0]
	get := func(row []string, col string) string {
		for i, name := range header {
			if name == col {
				return row[i]
			}
		}
		t.Fatalf("column %s not in header", col)
		return ""
	}

	assert.Equal(t, "P001", get(rows[1], "provider_id"))
	assert.Equal(t, "valid", get(rows[1], "license_status"))
	assert.Equal(t, "true", get(rows[1], "npi_present"))
	assert.Equal(t, "12", get(rows[1], "years_in_practice"))
	assert.Equal(t, "not_found", get(rows[2], "license_status"))
	assert.Equal(t, "9876543210", get(rows[2], "suggested_npi"))
	assert.Equal(t, "true", get(rows[2], "outlier"))
	assert.Equal(t, "", get(rows[2], "years_in_practice"))
}

func TestWriteClusters(t *testing.T) {
	records := []roster.ProviderRecord{
		{ProviderID: "P001"},
		{ProviderID: "P002"},
		{ProviderID: "P003"},
	}
	clusters := []linkage.Cluster{
		{ID: "cluster_0", Members: []int{0, 2}, Representative: 2},
	}

	path := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, newTestWriter().WriteClusters(path, clusters, records, 0.72))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report ClusterReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 0.72, report.Threshold)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, []string{"P001", "P003"}, report.Clusters[0].MemberIDs)
	assert.Equal(t, "P003", report.Clusters[0].RepresentativeID)
}

func TestWriteSummary(t *testing.T) {
	summary := quality.RunSummary{
		RunID:        "test-run",
		TotalRecords: 10,
		FinalRecords: 9,
	}

	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, newTestWriter().WriteSummary(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded quality.RunSummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary.RunID, decoded.RunID)
	assert.Equal(t, summary.TotalRecords, decoded.TotalRecords)
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "final.csv")
	require.NoError(t, newTestWriter().WriteFinal(path, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "final.csv", entries[0].Name())
}

func TestWriteCreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "final.csv")
	require.NoError(t, newTestWriter().WriteFinal(path, nil))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
