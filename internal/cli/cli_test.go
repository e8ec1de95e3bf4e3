package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/eunmann/ibu/pkg/ibu"
)

func writeFile(t *testing.T, path string, records []ibu.Record) {
	t.Helper()
	w, err := ibu.CreateFile(path, ibu.NewHeader(16, 12))
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if err := w.WriteBatch(records); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestRunNoArgs(t *testing.T) {
	if err := Run(nil); err == nil {
		t.Error("Run(nil) should fail with usage")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := Run([]string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("Run(frobnicate) = %v", err)
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ibu")
	b := filepath.Join(dir, "b.ibu")
	out := filepath.Join(dir, "merged.ibu")

	writeFile(t, a, []ibu.Record{ibu.NewRecord(1, 2, 0), ibu.NewRecord(3, 4, 1)})
	writeFile(t, b, []ibu.Record{ibu.NewRecord(5, 6, 2)})

	if err := Run([]string{"merge", "-out", out, a, b}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	h, records, err := ibu.Load(out)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if h.RecordCount != 3 {
		t.Errorf("merged record count = %d, want 3", h.RecordCount)
	}
	if len(records) != 3 || records[2] != ibu.NewRecord(5, 6, 2) {
		t.Errorf("merged records = %+v", records)
	}
}

func TestMergeRejectsMismatchedInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ibu")
	b := filepath.Join(dir, "b.ibu")
	out := filepath.Join(dir, "merged.ibu")

	writeFile(t, a, nil)

	w, err := ibu.CreateFile(b, ibu.NewHeader(20, 10))
	if err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := Run([]string{"merge", "-out", out, a, b}); err == nil {
		t.Error("merge of mismatched dimensions should fail")
	}
}

func TestMergeRequiresOut(t *testing.T) {
	if err := Run([]string{"merge", "in.ibu"}); err == nil {
		t.Error("merge without -out should fail")
	}
}

func TestCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.ibu")
	records := make([]ibu.Record, 100)
	for i := range records {
		records[i] = ibu.NewRecord(uint64(i), 0, uint64(i))
	}
	writeFile(t, path, records)

	if err := Run([]string{"count", "-threads", "4", path}); err != nil {
		t.Fatalf("count failed: %v", err)
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "i.ibu")
	writeFile(t, path, []ibu.Record{ibu.NewRecord(1, 1, 1)})

	if err := Run([]string{"info", path}); err != nil {
		t.Fatalf("info failed: %v", err)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "e.ibu")
	out := filepath.Join(dir, "e.parquet")
	writeFile(t, in, []ibu.Record{ibu.NewRecord(1, 2, 3)})

	if err := Run([]string{"export", "-out", out, in}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
}
