package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Nydauron/skatescore/config"
	"github.com/Nydauron/skatescore/identity"
	"github.com/Nydauron/skatescore/parsers"
	"github.com/Nydauron/skatescore/prompts"
	"github.com/Nydauron/skatescore/protocol"
	"github.com/Nydauron/skatescore/segment"
	"github.com/Nydauron/skatescore/writers"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	inputFlag       = "input"
	outputFlag      = "output"
	formatFlag      = "format"
	disciplineFlag  = "discipline"
	seasonFlag      = "season"
	judgesFlag      = "judges"
	panelFlag       = "panel"
	rosterFlag      = "roster"
	interactiveFlag = "interactive"
	failFastFlag    = "fail-fast"
	configFlag      = "config"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

// job is one invocation after flags and configuration are merged.
type job struct {
	inputs []string
	output string
	panel  string
	cfg    *config.Config
}

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String(configFlag))
	if err != nil {
		return nil, err
	}
	if cCtx.IsSet(formatFlag) {
		cfg.Output.Format = cCtx.String(formatFlag)
	}
	if cCtx.IsSet(rosterFlag) {
		cfg.Output.Roster = cCtx.String(rosterFlag)
	}
	if cCtx.IsSet(disciplineFlag) {
		cfg.Parse.Discipline = cCtx.String(disciplineFlag)
	}
	if cCtx.IsSet(seasonFlag) {
		cfg.Parse.SeasonRaw = cCtx.String(seasonFlag)
	}
	if cCtx.IsSet(judgesFlag) {
		cfg.Parse.Judges = cCtx.Int(judgesFlag)
	}
	if cCtx.IsSet(interactiveFlag) {
		cfg.Parse.Interactive = cCtx.Bool(interactiveFlag)
	}
	if cCtx.IsSet(failFastFlag) {
		cfg.Parse.FailFast = cCtx.Bool(failFastFlag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandInputs replaces directories by the readable files directly inside
// them, in name order.
func expandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("provided input is not an existing file or directory: %v", in)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && parsers.Supported(e.Name()) {
				found = append(found, filepath.Join(in, e.Name()))
			}
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no protocol files found in %v", inputs)
	}
	return files, nil
}

// segmentFor reads the segment from the file name, asking for a start date
// or class the name lacks when a prompter is given.
func segmentFor(path string, p config.ParseConfig, prompter *prompts.Prompter) (segment.Segment, error) {
	name := filepath.Base(path)
	class := p.Class
	for {
		seg, err := segment.Parse(name, class)
		if err == nil {
			seg.Source = filepath.Base(path)
			if p.Season != 0 {
				seg.Season = p.Season
			}
			return seg, nil
		}
		if prompter == nil {
			return seg, err
		}
		switch {
		case errors.Is(err, segment.ErrNoDate):
			date, perr := prompter.StartDatePrompt(name)
			if perr != nil {
				return seg, perr
			}
			name = withDate(name, date)
		case errors.Is(err, segment.ErrNoClass):
			if class, err = prompter.ClassPrompt(name); err != nil {
				return seg, err
			}
		default:
			return seg, err
		}
	}
}

// withDate puts date in front of name, replacing a malformed six character
// date prefix.
func withDate(name string, date time.Time) string {
	prefix := date.Format("060102") + "_"
	if len(name) > 7 && name[6] == '_' {
		return prefix + name[7:]
	}
	return prefix + name
}

func readPanel(path string, r *identity.Registry, seg segment.Segment) (identity.Panel, error) {
	grids, err := parsers.ParseFile(path)
	if err != nil {
		return identity.Panel{}, err
	}
	var cells []string
	for _, g := range grids {
		cells = append(cells, g.Values()...)
	}
	p, err := identity.ParsePanel(r, cells, seg.Season)
	if err != nil {
		return identity.Panel{}, fmt.Errorf("panel %s: %w", path, err)
	}
	p.SegmentID = seg.ID
	return p, nil
}

func run(ctx context.Context, j job) error {
	files, err := expandInputs(j.inputs)
	if err != nil {
		return err
	}
	if j.panel != "" && len(files) != 1 {
		return fmt.Errorf("--%s needs exactly one protocol file, got %d", panelFlag, len(files))
	}

	registry := identity.NewRegistry()
	var store *writers.RosterStore
	if j.cfg.Output.Roster != "" {
		if store, err = writers.OpenRoster(j.cfg.Output.Roster); err != nil {
			return err
		}
		defer store.Close()
		if err := store.Load(ctx, registry); err != nil {
			return err
		}
	}

	var prompter *prompts.Prompter
	if j.cfg.Parse.Interactive {
		prompter = prompts.Stdio()
	}

	assembler := protocol.NewAssembler(registry, protocol.NewSequences(), protocol.Options{
		Judges:   j.cfg.Parse.Judges,
		FailFast: j.cfg.Parse.FailFast,
	})
	out := writers.Run{Registry: registry}
	for _, f := range files {
		seg, err := segmentFor(f, j.cfg.Parse, prompter)
		if err != nil {
			return err
		}
		grids, err := parsers.ParseFile(f)
		if err != nil {
			return err
		}
		res, err := assembler.Assemble(seg, grids...)
		if err != nil {
			return err
		}
		log.Info().
			Str("segment", res.Segment.String()).
			Int("protocols", len(res.Protocols)).
			Int("failures", len(res.Failures)).
			Msg("read segment")
		if len(res.Failures) > 0 && prompter != nil {
			ok, err := prompter.ConfirmPrompt(fmt.Sprintf("%d protocols of %s could not be read. Continue?", len(res.Failures), res.Segment))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("stopped after %s", res.Segment)
			}
		}
		out.Results = append(out.Results, res)
	}

	if j.panel != "" {
		p, err := readPanel(j.panel, registry, out.Results[0].Segment)
		if err != nil {
			return err
		}
		out.Panels = append(out.Panels, p)
	}

	w, err := writers.New(j.cfg.Output.Format, j.output)
	if err != nil {
		return err
	}
	if err := w.WriteRun(ctx, out); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if store != nil {
		return store.Save(ctx, registry)
	}
	return nil
}

func main() {
	dotenvLoaded := config.LoadDotEnv()
	app := &cli.App{
		Name:    "skatescore",
		Usage:   "A tool to turn converted figure skating scoring protocols into relational records",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     inputFlag,
				Aliases:  []string{"i"},
				Usage:    "Protocol files (.xlsx, .csv, .html) or directories holding them",
				Required: true,
			},
			&cli.StringFlag{
				Name:     outputFlag,
				Aliases:  []string{"o"},
				Usage:    "The location to write the result. Can be a file path or \"-\" (for stdout, YAML only).",
				Required: true,
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format: yaml or sqlite",
			},
			&cli.StringFlag{
				Name:  disciplineFlag,
				Usage: "Class of every input (Men, Ladies, Pairs, IceDance) when file names do not say",
			},
			&cli.StringFlag{
				Name:  seasonFlag,
				Usage: "Season of every input, e.g. 2017 or SB2017",
			},
			&cli.IntFlag{
				Name:  judgesFlag,
				Usage: "Number of judges on the panel, instead of counting them from the sheet",
			},
			&cli.StringFlag{
				Name:  panelFlag,
				Usage: "Officials page (.html or .csv) of the single input segment",
			},
			&cli.StringFlag{
				Name:  rosterFlag,
				Usage: "SQLite file keeping competitor and official ids between runs",
			},
			&cli.BoolFlag{
				Name:  interactiveFlag,
				Usage: "Ask for metadata missing from file names and confirm after failed protocols",
			},
			&cli.BoolFlag{
				Name:  failFastFlag,
				Usage: "Stop at the first protocol that cannot be read",
			},
			&cli.StringFlag{
				Name:  configFlag,
				Usage: "Path to config.yaml (default $CONFIG_PATH or ./config.yaml)",
			},
		},
		Action: func(cCtx *cli.Context) error {
			cfg, err := loadConfig(cCtx)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg.Log, dotenvLoaded)
			return run(cCtx.Context, job{
				inputs: cCtx.StringSlice(inputFlag),
				output: cCtx.String(outputFlag),
				panel:  cCtx.String(panelFlag),
				cfg:    cfg,
			})
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("skatescore failed")
	}
}
