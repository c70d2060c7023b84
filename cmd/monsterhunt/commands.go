package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"monsterhunt/internal/ops"
	"monsterhunt/internal/quest"
	"monsterhunt/internal/telemetry"
)

// questHistory is implemented by stores that archive finished quests.
type questHistory interface {
	ListQuests(ctx context.Context, limit int) ([]quest.Quest, error)
}

func newFlagSet(name string, stdout io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", defaultConfigPath, "path to YAML config")
	return fs, configPath
}

func cmdSimulate(ctx context.Context, args []string, stdout io.Writer) (err error) {
	fs, configPath := newFlagSet("simulate", stdout)
	n := fs.Int("n", 1, "number of quests to generate")
	asJSON := fs.Bool("json", false, "print the batch result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be greater than zero, got %d", *n)
	}

	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(ctx); err == nil {
			err = cerr
		}
	}()

	events := telemetry.NewMemoryRepository(time.Now)
	engine, err := s.engine(events)
	if err != nil {
		return err
	}
	res, err := engine.RunBatch(ctx, *n)
	if err != nil {
		return err
	}
	for _, qerr := range res.Errors {
		s.logger.Printf("quest error: %v", qerr)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "QUEST\tRANK\tTIME\tPARTY\tAVG\tROLL\tRESULT")
	for _, q := range res.Quests {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d/%d\t%d\t%d\t%s\n",
			q.Name, q.RequiredRank, q.TimeLimit, len(q.HunterIDs), q.PartySize,
			q.AverageSuccessRate, q.Roll, q.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	stats := telemetry.CalculateStats(events.Events(telemetry.Filter{}))
	fmt.Fprintf(stdout, "\n%d requested, %d generated, %d skipped, %d succeeded, %d failed (%.0f%% success)\n",
		res.Requested, res.Generated, res.Skipped, res.Succeeded, res.Failed, stats.SuccessPct)
	if stats.InvalidHunters > 0 || stats.QuestsAborted > 0 {
		fmt.Fprintf(stdout, "%d unknown hunter references, %d quests aborted\n", stats.InvalidHunters, stats.QuestsAborted)
	}
	return nil
}

func cmdHunters(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("hunters", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}

	hs, err := s.reg.Hunters.List(ctx)
	if err == nil {
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tRANK\tSUCCESS\tBUSY")
		for _, h := range hs {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d%%\t%t\n", h.ID, h.Name, h.Rank, h.SuccessRate, h.Busy)
		}
		err = tw.Flush()
	}
	return errors.Join(err, s.close(ctx))
}

func cmdMonsters(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("monsters", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}

	ms, err := s.reg.Monsters.List(ctx)
	if err == nil {
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SPECIES\tREQUIRED RANK")
		for _, m := range ms {
			fmt.Fprintf(tw, "%s\t%d\n", m.Species, m.RequiredRank)
		}
		err = tw.Flush()
	}
	return errors.Join(err, s.close(ctx))
}

func cmdAddHunter(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("add-hunter", stdout)
	name := fs.String("name", "", "hunter name (one word)")
	rank := fs.Int("rank", 1, "starting rank")
	sr := fs.Int("success-rate", 50, "starting success rate, 0-100")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}

	h, err := s.reg.AddHunter(ctx, *name, *rank, *sr)
	if err != nil {
		_ = s.store.Close()
		return err
	}
	fmt.Fprintf(stdout, "added hunter %d: %s (rank %d, %d%%)\n", h.ID, h.Name, h.Rank, h.SuccessRate)
	return s.close(ctx)
}

func cmdAddMonster(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("add-monster", stdout)
	species := fs.String("species", "", "monster species (one word)")
	rank := fs.Int("rank", 1, "rank required to hunt it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}

	m, err := s.reg.AddMonster(ctx, *species, *rank)
	if err != nil {
		_ = s.store.Close()
		return err
	}
	fmt.Fprintf(stdout, "added monster %s (rank %d)\n", m.Species, m.RequiredRank)
	return s.close(ctx)
}

func cmdHistory(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("history", stdout)
	limit := fs.Int("limit", 20, "number of quests to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := openSession(ctx, *configPath)
	if err != nil {
		return err
	}
	defer s.store.Close()

	h, ok := s.store.(questHistory)
	if !ok {
		return fmt.Errorf("storage driver %q keeps no quest history", s.cfg.Storage.Driver)
	}
	qs, err := h.ListQuests(ctx, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINISHED\tQUEST\tPARTY\tAVG\tROLL\tRESULT")
	for _, q := range qs {
		finished := ""
		if q.FinishedAt != nil {
			finished = q.FinishedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n", finished, q.Name, len(q.HunterIDs), q.AverageSuccessRate, q.Roll, q.Status)
	}
	return tw.Flush()
}

func cmdBackup(ctx context.Context, args []string, stdout io.Writer) error {
	_ = ctx
	fs, configPath := newFlagSet("backup", stdout)
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = ops.DefaultArchivePath("backups", time.Now())
	}

	m, err := ops.Backup(cfg.Storage.DataDir, *out)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, m.Archive)
	fmt.Fprintln(stdout, "files:", strings.Join(m.Files, " "))
	fmt.Fprintln(stdout, "digest:", m.Digest)
	return nil
}

func cmdRestore(ctx context.Context, args []string, stdout io.Writer) error {
	_ = ctx
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(stdout)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return errors.New("-archive is required")
	}
	if err := ops.Restore(*archive, *target); err != nil {
		return err
	}
	fmt.Fprintln(stdout, filepath.Clean(*target))
	return nil
}

func cmdDrill(ctx context.Context, args []string, stdout io.Writer) error {
	_ = ctx
	fs, configPath := newFlagSet("drill", stdout)
	workDir := fs.String("work-dir", os.TempDir(), "scratch directory for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	rep, err := ops.Drill(cfg.Storage.DataDir, *workDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "backup:", rep.Manifest.Archive)
	fmt.Fprintln(stdout, "restored:", rep.RestoreDir)
	fmt.Fprintln(stdout, "digest:", rep.Manifest.Digest)
	return nil
}
