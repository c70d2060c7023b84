package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

const defaultConfigPath = "monsterhunt.yml"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cmds := map[string]func(context.Context, []string, io.Writer) error{
		"simulate":    cmdSimulate,
		"hunters":     cmdHunters,
		"monsters":    cmdMonsters,
		"add-hunter":  cmdAddHunter,
		"add-monster": cmdAddMonster,
		"history":     cmdHistory,
		"backup":      cmdBackup,
		"restore":     cmdRestore,
		"drill":       cmdDrill,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		printUsage(stderr)
		return 2
	}
	if err := cmd(ctx, args[1:], stdout); err != nil {
		fmt.Fprintf(stderr, "%s failed: %v\n", args[0], err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  monsterhunt simulate    [-config monsterhunt.yml] -n 5 [-json]")
	fmt.Fprintln(w, "  monsterhunt hunters     [-config monsterhunt.yml]")
	fmt.Fprintln(w, "  monsterhunt monsters    [-config monsterhunt.yml]")
	fmt.Fprintln(w, "  monsterhunt add-hunter  [-config monsterhunt.yml] -name Aiden -rank 3 -success-rate 60")
	fmt.Fprintln(w, "  monsterhunt add-monster [-config monsterhunt.yml] -species Rathalos -rank 4")
	fmt.Fprintln(w, "  monsterhunt history     [-config monsterhunt.yml] [-limit 20]")
	fmt.Fprintln(w, "  monsterhunt backup      [-config monsterhunt.yml] [-out backups/roster.tar.gz]")
	fmt.Fprintln(w, "  monsterhunt restore     -archive backups/roster.tar.gz -target-dir data-restored")
	fmt.Fprintln(w, "  monsterhunt drill       [-config monsterhunt.yml] [-work-dir /tmp]")
}
