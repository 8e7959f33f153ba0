package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Post-export sanity check: reopen a cleaned workbook and prove the queued
// rows are really gone. When the original workbook is given as well, it also
// verifies the survivors kept their order and their fill styling.
//
// Usage: go run ./scripts/verifyclean cleaned.xlsx freight,inv [original.xlsx]
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: verifyclean <cleaned.xlsx> <term>[,<term>...] [original.xlsx]")
		os.Exit(2)
	}
	filename := os.Args[1]
	terms := strings.Split(os.Args[2], ",")

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== CLEANUP CHECK: %s ===\n", filename)
	fmt.Printf("Checking sheet: %s\n", sheetName)
	fmt.Printf("Total rows: %d\n\n", len(rows))

	foundSurvivor := false
	for i, row := range rows {
		if i == 0 {
			continue // Skip header
		}

		content := strings.ToLower(strings.Join(row, " "))
		for _, term := range terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if strings.Contains(content, term) {
				fmt.Printf("❌ SURVIVOR at row %d: still contains %q\n", i+1, term)
				foundSurvivor = true
			}
		}
	}

	orderOK, styleOK := true, true
	if len(os.Args) > 3 {
		orderOK, styleOK = verifyAgainstOriginal(f, sheetName, rows, os.Args[3])
	}

	fmt.Println()
	if !foundSurvivor && orderOK && styleOK {
		fmt.Println("✅ Cleanup Verified: YES")
		fmt.Println("No queued term survived, and remaining rows kept their order and styling.")
		return
	}

	fmt.Println("❌ Cleanup Verified: NO")
	if foundSurvivor {
		fmt.Println("Rows containing search terms survived the cleanup!")
	}
	if !orderOK {
		fmt.Println("Surviving rows are not in the original's order!")
	}
	if !styleOK {
		fmt.Println("Cell styling was not preserved!")
	}
	os.Exit(1)
}

// verifyAgainstOriginal walks the cleaned rows through the original as a
// subsequence. Every survivor must appear in the original, in the original's
// order, carrying the original's fill.
func verifyAgainstOriginal(cleaned *excelize.File, sheetName string, cleanRows [][]string, origPath string) (orderOK, styleOK bool) {
	orig, err := excelize.OpenFile(origPath)
	if err != nil {
		log.Fatal(err)
	}
	defer orig.Close()

	origSheet := orig.GetSheetName(0)
	origRows, err := orig.GetRows(origSheet)
	if err != nil {
		log.Fatal(err)
	}

	orderOK, styleOK = true, true
	j := 0
	for i, row := range cleanRows {
		key := strings.Join(row, "\x00")
		found := -1
		for ; j < len(origRows); j++ {
			if strings.Join(origRows[j], "\x00") == key {
				found = j
				j++
				break
			}
		}
		if found < 0 {
			fmt.Printf("❌ ORDER at row %d: no matching original row\n", i+1)
			orderOK = false
			break
		}
		if fillOf(cleaned, sheetName, i+1) != fillOf(orig, origSheet, found+1) {
			fmt.Printf("❌ STYLE at row %d: fill differs from original row %d\n", i+1, found+1)
			styleOK = false
		}
	}
	return orderOK, styleOK
}

// fillOf summarizes the fill of a row's first cell well enough to compare
// across two files, where raw style IDs are meaningless.
func fillOf(f *excelize.File, sheet string, row int) string {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return ""
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return ""
	}
	return fmt.Sprintf("%s|%d|%s", style.Fill.Type, style.Fill.Pattern, strings.Join(style.Fill.Color, ","))
}
