package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"

	"github.com/snehbhagat/resume-intake/internal/archive"
	"github.com/snehbhagat/resume-intake/internal/common"
	"github.com/snehbhagat/resume-intake/internal/export"
	"github.com/snehbhagat/resume-intake/internal/extract"
	"github.com/snehbhagat/resume-intake/internal/gauth"
	"github.com/snehbhagat/resume-intake/internal/hashing"
	"github.com/snehbhagat/resume-intake/internal/notify"
	"github.com/snehbhagat/resume-intake/internal/ocr"
	"github.com/snehbhagat/resume-intake/internal/pipeline"
	"github.com/snehbhagat/resume-intake/internal/records"
	"github.com/snehbhagat/resume-intake/internal/transport"
)

func main() {
	var (
		envFile    = flag.String("env", ".env", "path to the env file (optional)")
		exportPath = flag.String("export", "", "write the candidate table to this XLSX file and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(*envFile); err != nil {
		logger.Info("no env file loaded, using process environment", "path", *envFile)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	scopes := []string{
		gmail.GmailReadonlyScope,
		drive.DriveScope,
		sheets.SpreadsheetsScope,
	}
	if cfg.Notify.Enabled {
		scopes = append(scopes, gmail.GmailSendScope)
	}
	client, err := gauth.NewHTTPClient(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile, scopes...)
	if err != nil {
		logger.Error("google authorization failed", "error", err)
		os.Exit(1)
	}

	recordsStore, err := records.NewSheetsStore(ctx, client, cfg.Records.SpreadsheetID, cfg.Records.SheetName, logger)
	if err != nil {
		logger.Error("failed to create record store", "error", err)
		os.Exit(1)
	}

	if *exportPath != "" {
		exportXLSX(ctx, logger, recordsStore, *exportPath)
		return
	}

	source, err := transport.NewGmailSource(ctx, client, cfg.Pipeline.SpoolDir, logger)
	if err != nil {
		logger.Error("failed to create gmail source", "error", err)
		os.Exit(1)
	}
	archiveStore, err := archive.NewDriveStore(ctx, client, cfg.Archive.FolderID, logger)
	if err != nil {
		logger.Error("failed to create archive store", "error", err)
		os.Exit(1)
	}

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		n, err := notify.NewGmailNotifier(ctx, client, cfg.Notify.ReviewerEmail, logger)
		if err != nil {
			logger.Error("failed to create notifier", "error", err)
			os.Exit(1)
		}
		notifier = n
	}

	ocrExtractor := ocr.NewExtractor(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	textExtractor := extract.NewExtractor(ocrExtractor, logger)

	hashLogPath := cfg.Pipeline.HashLogPath
	if hashLogPath == "" {
		hashLogPath = filepath.Join(cfg.Pipeline.SpoolDir, "processed_files.txt")
	}
	index, err := hashing.OpenDedupIndex(hashLogPath)
	if err != nil {
		logger.Error("failed to open hash log", "path", hashLogPath, "error", err)
		os.Exit(1)
	}

	p := pipeline.New(
		index,
		textExtractor,
		extract.NewRegexFieldExtractor(),
		archiveStore,
		recordsStore,
		notifier,
		pipeline.Options{
			InterDocWait: cfg.Pipeline.InterDocWait,
			CallTimeout:  cfg.Pipeline.CallTimeout,
		},
		logger,
	)

	logger.Info("fetching new applications", "filter", cfg.Gmail.SubjectFilter)
	docs, err := source.FetchNewDocuments(ctx, cfg.Gmail.SubjectFilter)
	if err != nil {
		logger.Error("failed to fetch documents", "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		fmt.Println("No new applications found.")
		return
	}

	report, err := p.Run(ctx, docs)
	if err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Intake run complete!\n")
	fmt.Printf("- Documents fetched: %d\n", len(docs))
	fmt.Printf("- Uploaded: %d\n", report.Uploaded)
	fmt.Printf("- Duplicate content: %d\n", report.DupContent)
	fmt.Printf("- Duplicate identity: %d\n", report.DupIdentity)
	fmt.Printf("- Failed: %d\n", report.Failed)
}

func exportXLSX(ctx context.Context, logger *slog.Logger, store records.Store, out string) {
	data, err := export.NewService(store, logger).ExportCandidatesXLSX(ctx)
	if err != nil {
		logger.Error("failed to export candidates", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		logger.Error("failed to write output file", "path", out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Candidate table exported to %s\n", out)
}
