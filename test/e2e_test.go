package test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSystemIntegration(t *testing.T) {
	// 1. Setup Environment
	rootDir, _ := filepath.Abs("..")
	cmdDir := filepath.Join(rootDir, "cmd", "sheetsweep")
	outputDir := filepath.Join(rootDir, "output", "system_test")

	binaryName := "sheetsweep-test"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(rootDir, binaryName)

	// Clean up previous runs
	os.Remove(binaryPath)
	os.RemoveAll(outputDir)

	// 2. Build the Application
	t.Logf("Building application from %s...", cmdDir)
	buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
	buildCmd.Dir = cmdDir
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("Failed to build application: %v", err)
	}
	defer os.Remove(binaryPath) // Cleanup binary

	// 3. Create a Custom Config and an Input Workbook for the Test
	testConfigContent := `
upload:
  allowed_extensions: [".xlsx", ".csv"]
  session_ttl: 5m

cleanup:
  header_rows: 1
  total_keyword: "total"

output:
  dir: "./output/system_test"
  file_suffix: "_cleaned"
  audit_formats: ["json"]
`
	testConfigPath := filepath.Join(rootDir, "config_test.yaml")
	if err := os.WriteFile(testConfigPath, []byte(testConfigContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	defer os.Remove(testConfigPath)

	fixturePath := filepath.Join(t.TempDir(), "ledger.xlsx")
	writeFixtureWorkbook(t, fixturePath)

	// 4. Run the Binary, driving the prompt like an operator would:
	// search "freight", finish, confirm the removal
	t.Log("Running application binary...")
	runCmd := exec.Command(binaryPath, "-config", testConfigPath, "-file", fixturePath)
	runCmd.Dir = rootDir
	runCmd.Stdin = strings.NewReader("freight\ndone\ny\n")
	runCmd.Stdout = os.Stdout
	runCmd.Stderr = os.Stderr

	if err := runCmd.Run(); err != nil {
		t.Fatalf("Application run failed: %v", err)
	}

	// 5. Verify Outputs
	expectedFiles := []string{
		"ledger_cleaned.xlsx",
		"ledger_audit.json",
		"sheetsweep.log",
	}

	for _, f := range expectedFiles {
		path := filepath.Join(outputDir, f)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			t.Errorf("Expected output file missing: %s", f)
		} else if info.Size() == 0 {
			t.Errorf("Output file is empty: %s", f)
		} else {
			t.Logf("✅ Verified output: %s (%d bytes)", f, info.Size())
		}
	}

	// 6. ZERO TOLERANCE CHECK: no freight row survived, formatting intact
	t.Log("Running cleanup verification script...")
	verifyCleanedWorkbook(t, filepath.Join(outputDir, "ledger_cleaned.xlsx"), fixturePath)
}

// writeFixtureWorkbook builds a small styled ledger with one freight charge
// and its total line.
func writeFixtureWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	records := [][]any{
		{"Account", "Narration", "Amount"},
		{"A-100", "office rent", 1200},
		{"A-101", "freight charges", 300},
		{"", "Total", 300},
		{"A-102", "stationery", 80},
	}
	fills := []string{"", "FFC7CE", "C6EFCE", "FFEB9C", "9BC2E6"}

	for i, rec := range records {
		for j, v := range rec {
			if v == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("Failed to set cell %s: %v", cell, err)
			}
		}
		if fills[i] == "" {
			continue
		}
		styleID, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fills[i]}},
		})
		if err != nil {
			t.Fatalf("Failed to create style: %v", err)
		}
		if err := f.SetCellStyle("Sheet1", fmt.Sprintf("A%d", i+1), fmt.Sprintf("C%d", i+1), styleID); err != nil {
			t.Fatalf("Failed to style row %d: %v", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to write fixture workbook: %v", err)
	}
}

// verifyCleanedWorkbook runs the verification script against the cleaned
// file, with the original alongside for the order and styling checks.
func verifyCleanedWorkbook(t *testing.T, cleanedPath, originalPath string) {
	rootDir, _ := filepath.Abs("..")
	cmd := exec.Command("go", "run", "./scripts/verifyclean", cleanedPath, "freight", originalPath)
	cmd.Dir = rootDir
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("Cleanup verification failed: %v\nOutput: %s", err, string(output))
	} else {
		t.Logf("✅ Cleanup verification passed: %s", string(output))
	}
}
