package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sheetsweep/internal/config"
	"sheetsweep/internal/logger"
	"sheetsweep/internal/match"
	"sheetsweep/internal/report"
	"sheetsweep/internal/session"
	"sheetsweep/internal/sheet"
	"sheetsweep/internal/table"
	"sheetsweep/internal/ui"
)

const (
	appName    = "Sheetsweep"
	appVersion = "1.0.0"
	appDesc    = "A Pure Go tool for search-based spreadsheet row cleanup with formatting preserved"
)

// previewLimit caps the rows printed after loading a file.
const previewLimit = 15

var (
	configPath  string
	verbose     bool
	showVersion bool
	inputFile   string
	outputDir   string
	formats     string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&inputFile, "file", "", "Spreadsheet to clean (prompted for when omitted)")
	flag.StringVar(&inputFile, "f", "", "Spreadsheet to clean (shorthand)")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated audit formats (excel,word,json); overrides config")
}

func main() {
	// CRITICAL: Ensure "Press Enter to Exit" runs even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
			waitForEnter()
			os.Exit(1)
		}
	}()

	// Run the actual application logic
	exitCode := run()
	waitForEnter()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Printf("❌ Failed to create output directory: %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "sheetsweep.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := runCleanup(cfg); err != nil {
		logger.Error("Cleanup failed: %v", err)
		return 1
	}
	return 0
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runCleanup(cfg *config.Config) error {
	stdin := bufio.NewScanner(os.Stdin)

	path := strings.TrimSpace(inputFile)
	if path == "" {
		fmt.Print("Spreadsheet to clean: ")
		if !stdin.Scan() {
			return fmt.Errorf("no input file given")
		}
		path = strings.TrimSpace(stdin.Text())
	}
	if path == "" {
		return fmt.Errorf("no input file given")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	sessions := session.NewManager(cfg)
	sess, err := sessions.Create(filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	defer sessions.Remove(sess.ID)

	logger.Info("Loaded [%s]: %d data rows, %d columns", sess.SourceName, sess.RowCount(), len(sess.Columns()))
	logger.InfoClean("\n%s", previewGrid(cfg, sess))

	if err := searchLoop(stdin, cfg, sessions, sess); err != nil {
		return err
	}

	pending, err := sessions.Pending(sess.ID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("Nothing queued; no file written.")
		return nil
	}

	fmt.Printf("\nRemove %d row(s) from %s? [y/N]: ", len(pending), sess.SourceName)
	if !stdin.Scan() || !isYes(stdin.Text()) {
		logger.Info("Aborted; original file untouched.")
		return nil
	}

	return applyCleanup(cfg, sessions, sess)
}

// searchLoop reads terms and queue commands until the user is done. Rows the
// user references on the prompt are sheet row numbers, the same numbering the
// preview and pending grids print.
func searchLoop(stdin *bufio.Scanner, cfg *config.Config, sessions *session.Manager, sess *session.Session) error {
	fmt.Println()
	fmt.Println("Enter a search term to queue matching rows (and their total lines).")
	fmt.Println("Commands: rescue <row>[,<row>...]   clear   done")

	for {
		fmt.Print("\n> ")
		if !stdin.Scan() {
			// EOF ends the loop the same way "done" does
			return stdin.Err()
		}
		line := strings.TrimSpace(stdin.Text())

		switch {
		case line == "":
			continue
		case line == "done" || line == "exit" || line == "quit":
			return nil
		case line == "clear":
			if err := sessions.ClearQueue(sess.ID); err != nil {
				return err
			}
			logger.Info("Queue cleared.")
			continue
		case strings.HasPrefix(line, "rescue "):
			rescueRows(cfg, sessions, sess, strings.TrimPrefix(line, "rescue "))
			printPending(cfg, sessions, sess)
			continue
		}

		result, err := sessions.Search(sess.ID, line, cfg.Cleanup.CaseSensitive)
		if err != nil {
			return err
		}
		logger.Info("%d match(es) for %q; %d row(s) queued.", len(result.Matches), line, len(result.Queue))
		printPending(cfg, sessions, sess)
	}
}

// rescueRows pulls the listed sheet rows back out of the queue.
func rescueRows(cfg *config.Config, sessions *session.Manager, sess *session.Session, arg string) {
	rows, ok := match.ParseIndexList(arg)
	if !ok {
		logger.Warn("rescue expects sheet row numbers, e.g. rescue 12,14")
		return
	}
	for _, sheetRow := range rows {
		queued, err := sessions.Rescue(sess.ID, sheet.TableIndex(sheetRow, cfg.Cleanup.HeaderRows))
		if err != nil {
			logger.Error("Rescue failed: %v", err)
			return
		}
		logger.Info("Rescued row %d; %d row(s) queued.", sheetRow, len(queued))
	}
}

func printPending(cfg *config.Config, sessions *session.Manager, sess *session.Session) {
	pending, err := sessions.Pending(sess.ID)
	if err != nil || len(pending) == 0 {
		return
	}
	header := append([]string{"Row", "Reason"}, sess.Columns()...)
	rows := make([][]string, len(pending))
	for i, p := range pending {
		rows[i] = append([]string{strconv.Itoa(p.SheetRow), p.Reason}, p.Cells...)
	}
	logger.InfoClean("\n%s", ui.RenderGrid(header, rows, ui.DefaultMaxColWidth))
}

func previewGrid(cfg *config.Config, sess *session.Session) string {
	tbl := sess.Table()
	n := tbl.RowCount()
	if n > previewLimit {
		n = previewLimit
	}

	header := append([]string{"Row"}, tbl.Columns()...)
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row, ok := tbl.Row(i)
		if !ok {
			break
		}
		cells := make([]string, 0, len(row)+1)
		cells = append(cells, strconv.Itoa(sheet.SheetRow(i, cfg.Cleanup.HeaderRows)))
		for _, v := range row {
			cells = append(cells, table.Display(v))
		}
		rows = append(rows, cells)
	}

	out := ui.RenderGrid(header, rows, ui.DefaultMaxColWidth)
	if hidden := tbl.RowCount() - n; hidden > 0 {
		out += fmt.Sprintf("... and %d more row(s)\n", hidden)
	}
	return out
}

func applyCleanup(cfg *config.Config, sessions *session.Manager, sess *session.Session) error {
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseRemoving,
		ui.PhaseWriting,
		ui.PhaseReporting,
	})

	// --- Phase 1: Removal ---
	logger.Info("Phase 1: Removing queued rows...")
	queued := sess.PendingCount()
	removeBar := pipeline.NextPhase(queued)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout)
	defer cancel()

	export, err := sessions.Export(ctx, sess.ID)
	if err != nil {
		return err
	}
	removeBar.Set(queued)
	removeBar.Finish()

	// --- Phase 2: Writing ---
	logger.Info("Phase 2: Writing cleaned file...")
	writeBar := pipeline.NextPhase(1)

	outPath := cfg.OutputPath(export.Filename)
	if err := os.WriteFile(outPath, export.Data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	writeBar.Increment()
	writeBar.Finish()

	// --- Phase 3: Audit artifacts ---
	logger.Info("Phase 3: Writing audit artifacts...")
	auditFormats := cfg.Output.AuditFormats
	if formats != "" {
		auditFormats = strings.Split(formats, ",")
	}
	writers := report.ForFormats(auditFormats)

	auditBar := pipeline.NextPhase(len(writers))
	var auditErrors []error
	for _, w := range writers {
		if err := w.Write(export.Audit, cfg); err != nil {
			logger.Error("Audit artifact failed: %v", err)
			auditErrors = append(auditErrors, err)
		}
		auditBar.Increment()
	}
	auditBar.Finish()

	pipeline.Finish()

	logger.Info("✅ Cleanup Complete. Wrote [%s], removed %d row(s). Check [%s] for audit artifacts.",
		outPath, len(export.Audit.Removed), cfg.Output.Dir)

	if len(auditErrors) > 0 {
		return fmt.Errorf("one or more audit artifacts failed: %d errors", len(auditErrors))
	}
	return nil
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      SHEETSWEEP v1.0.0                    ║
║       Search, Review, and Remove Spreadsheet Rows         ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
