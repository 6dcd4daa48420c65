package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxpert/cqlcmd/admin"
	"github.com/maxpert/cqlcmd/cfg"
	"github.com/maxpert/cqlcmd/command"
	"github.com/maxpert/cqlcmd/encoding"
	"github.com/maxpert/cqlcmd/protocol"
	"github.com/maxpert/cqlcmd/session"
	"github.com/maxpert/cqlcmd/telemetry"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	executeFlag    = flag.String("execute", "", "Statement to run once and exit")
	modeFlag       = flag.String("mode", "nonquery", "How to run -execute: nonquery, scalar or rows")
	insertFileFlag = flag.String("insert-file", "", "File holding an array of rows to insert into -table")
	tableFlag      = flag.String("table", "", "Target table for -insert-file")
	formatFlag     = flag.String("format", "json", "Row format for -insert-file and output: json or msgpack")
	zstdFlag       = flag.Bool("zstd", false, "Compress -mode rows output with zstd")
)

// runOptions is one CLI invocation
type runOptions struct {
	statement  string
	mode       string
	insertFile string
	table      string
	format     encoding.Format
	compress   bool
}

func main() {
	flag.Parse()

	// Load configuration
	err := cfg.Load(*cfg.ConfigPathFlag)
	if err != nil {
		panic(err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	// Setup logging
	var writer io.Writer = zerolog.NewConsoleWriter()
	if cfg.Config.Logging.Format == "json" {
		writer = os.Stderr
	}
	gLog := zerolog.New(writer).
		With().
		Timestamp().
		Uint64("client_id", cfg.Config.ClientID).
		Logger()

	if cfg.Config.Logging.Verbose || cfg.Config.Command.LogStatements {
		log.Logger = gLog.Level(zerolog.DebugLevel)
	} else {
		log.Logger = gLog.Level(zerolog.InfoLevel)
	}

	log.Debug().Msg("Initializing telemetry")
	telemetry.InitializeTelemetry()
	telemetry.InitMetrics()

	format, err := encoding.ParseFormat(*formatFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -format")
		return
	}

	classifier, err := protocol.NewClassifier(cfg.Config.Command.ClassifierCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create statement classifier")
		return
	}

	cqlSession, err := session.Open(cfg.Config.Cluster)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cluster session")
		return
	}
	defer cqlSession.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		statement:  *executeFlag,
		mode:       *modeFlag,
		insertFile: *insertFileFlag,
		table:      *tableFlag,
		format:     format,
		compress:   *zstdFlag,
	}

	if opts.statement != "" || opts.insertFile != "" {
		if err := run(ctx, cqlSession, classifier, opts, os.Stdout); err != nil {
			log.Error().Err(err).Msg("Command failed")
			os.Exit(1)
		}
		return
	}

	if !cfg.Config.Admin.Enabled {
		log.Info().Msg("Nothing to do: pass -execute, -insert-file or enable the admin API")
		return
	}

	if err := serve(ctx, cqlSession, classifier); err != nil {
		log.Fatal().Err(err).Msg("Admin server failed")
	}
}

// run executes a single CLI invocation and writes its result to out
func run(ctx context.Context, s session.Session, classifier *protocol.Classifier, opts runOptions, out io.Writer) error {
	if opts.insertFile != "" {
		return runInsert(ctx, s, classifier, opts, out)
	}

	cmd := command.New(s, opts.statement).WithClassifier(classifier)
	switch opts.mode {
	case "nonquery":
		n, err := cmd.ExecuteNonQuery(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%s ok (%d)\n", cmd.StatementCode(), n)
		return err

	case "scalar":
		v, err := cmd.ExecuteScalar(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, v.String())
		return err

	case "rows":
		records, err := cmd.ExecuteRows(ctx)
		if err != nil {
			return err
		}
		data, err := encoding.MarshalRecords(records, opts.format)
		if err != nil {
			return err
		}
		if opts.compress {
			if data, err = encoding.Compress(data); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
		if opts.format == encoding.FormatJSON && !opts.compress {
			_, err = io.WriteString(out, "\n")
		}
		return err
	}

	return fmt.Errorf("unknown mode %q (want nonquery, scalar or rows)", opts.mode)
}

func runInsert(ctx context.Context, s session.Session, classifier *protocol.Classifier, opts runOptions, out io.Writer) error {
	if opts.table == "" {
		return errors.New("-insert-file requires -table")
	}

	data, err := os.ReadFile(opts.insertFile)
	if err != nil {
		return err
	}
	// zstd-compressed files are detected by their frame header
	if data, err = encoding.Decompress(data); err != nil {
		return fmt.Errorf("failed to decompress %s: %w", opts.insertFile, err)
	}

	records, err := encoding.UnmarshalRecords(data, opts.format)
	if err != nil {
		return fmt.Errorf("failed to read rows from %s: %w", opts.insertFile, err)
	}

	cmd := command.New(s, "").WithClassifier(classifier)
	if _, err := cmd.InsertRows(ctx, records, opts.table); err != nil {
		return err
	}

	log.Info().Int("rows", len(records)).Str("table", opts.table).Msg("Rows inserted")
	_, err = fmt.Fprintf(out, "inserted %d rows into %s\n", len(records), opts.table)
	return err
}

// serve runs the admin API until ctx is cancelled
func serve(ctx context.Context, s session.Session, classifier *protocol.Classifier) error {
	tables, err := admin.NewTableFilter(cfg.Config.Admin.InsertTables, cfg.Config.Admin.InsertKeyspaces)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	admin.RegisterRoutes(mux, admin.NewHandlers(s, classifier).WithTableFilter(tables))

	addr := fmt.Sprintf("%s:%d", cfg.Config.Admin.BindAddress, cfg.Config.Admin.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("Admin API listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down admin API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
