package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/adapters/realrand"
	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/randomizer"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

func rollCommand() *cli.Command {
	return &cli.Command{
		Name:      "roll",
		Usage:     "draw random items locally, without starting a server",
		ArgsUsage: "[category]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of items to draw (no duplicates)",
				Value:   1,
			},
		},
		Action: rollAction,
	}
}

func rollAction(ctx context.Context, cmd *cli.Command) error {
	_, cat, err := loadCatalog(cmd, realfs.New())
	if err != nil {
		return err
	}

	category := cmd.Args().First()
	if category == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("no category given (available: %s)", strings.Join(cat.Names(), ", "))
		}
		category, err = pickCategory(cat)
		if err != nil {
			return err
		}
	}

	svc := randomizer.New(cat, realrand.New())
	text, err := svc.Randomize(category, cmd.Int("count"))
	if errors.Is(err, randomizer.ErrInvalidCount) {
		return fmt.Errorf("--count: %w", err)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, text)
	return nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// pickCategory asks for a category interactively.
func pickCategory(cat *catalog.Catalog) (string, error) {
	options := make([]huh.Option[string], 0, cat.Len())
	for _, name := range cat.Names() {
		c, _ := cat.Lookup(name)
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d items)", name, c.Len()), name))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Description("Pick the list to draw from").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return choice, nil
}
