package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wsx/internal/models"
	"github.com/desertthunder/wsx/internal/repositories"
	"github.com/desertthunder/wsx/internal/shared"
	"github.com/desertthunder/wsx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	// DB is opened from the config on first use when nil.
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, runCommand, checkCommand, progressCommand, exportCommand, responsesCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config and applies the log level.
//
// A missing file means defaults; a file that exists but cannot be used is an error.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		if err := r.loadConfig(path); err != nil {
			return ctx, err
		}
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)
	return ctx, nil
}

func (r *Runner) loadConfig(path string) error {
	r.configPath = path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrInvalidConfig, path, err)
	}
	r.config = config
	return nil
}

// SetLogger replaces the runner's logger, keeping the current level.
func (r *Runner) SetLogger(l *log.Logger) {
	l.SetLevel(r.logger.GetLevel())
	r.logger = l
}

// database opens the configured database on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorageFailed, err)
	}
	r.db = db
	return db, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	r.db = nil
}

// session is one worksheet wired to its stored progress.
type session struct {
	worksheet *models.Worksheet
	key       string
	page      *tasks.Page
	engine    *tasks.Engine
	store     *repositories.ProgressStore
	responses *repositories.ResponseRepository
}

// openSession loads the worksheet at path and wires it to the configured storage. The engine is not started.
func (r *Runner) openSession(path string) (*session, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: worksheet path", shared.ErrMissingArgument)
	}

	ws, err := models.LoadWorksheet(path)
	if err != nil {
		return nil, err
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	r.logger.Debug("worksheet opened", "path", path, "tasks", len(ws.Tasks))
	return &session{
		worksheet: ws,
		key:       tasks.ProgressKey(r.config.Progress.Namespace, ws.Slug()),
		page:      tasks.NewPage(ws.Tasks),
		store:     repositories.NewProgressStore(db),
		responses: repositories.NewResponseRepository(db),
	}, nil
}

// startEngine loads the session's tasks into a new engine and restores stored progress.
//
// Stored answers are always replayed so that a save from this session keeps every earlier answer.
func (r *Runner) startEngine(s *session) *tasks.Engine {
	opts := tasks.EngineOpts{
		Surfaces:      s.page,
		Store:         s.store,
		Key:           s.key,
		ReplayAnswers: true,
		Autosave:      r.config.Progress.Autosave,
		Logger:        shared.WithLogger(r.logger, "worksheet", s.worksheet.Slug()),
	}
	if r.config.Progress.RecordChecks {
		opts.Recorder = s.responses
	}

	s.engine = tasks.NewEngine(opts)
	s.engine.Load(s.worksheet.Tasks)
	s.engine.Restore()
	return s.engine
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
