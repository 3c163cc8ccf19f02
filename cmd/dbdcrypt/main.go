// Command dbdcrypt decrypts and encrypts protected game profile and asset data.
//
// Usage:
//
//	dbdcrypt decrypt --branch live --in GetAll.txt       # saves Output/Decrypted/GetAll.json
//	dbdcrypt decrypt --branch l --data 'DbdDAgAC...'     # prints to stdout
//	dbdcrypt encrypt --key 9.3.0_live --in GetAll.json   # saves Output/Encrypted/GetAll.json
//	dbdcrypt keys                                        # lists loaded key ids
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/udisondev/dbdcrypt/internal/app"
	"github.com/udisondev/dbdcrypt/internal/codec"
	"github.com/udisondev/dbdcrypt/internal/config"
	"github.com/udisondev/dbdcrypt/internal/output"
)

const ConfigPath = "config/dbdcrypt.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dbdcrypt",
		Usage: "decrypt and encrypt protected game data",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "config",
				Usage:   "path to YAML config",
				Value:   ConfigPath,
				EnvVars: []string{"DBDCRYPT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			decryptCommand(),
			encryptCommand(),
			keysCommand(),
			branchesCommand(),
		},
	}
}

func decryptCommand() *cli.Command {
	return &cli.Command{
		Name:  "decrypt",
		Usage: "unwind every encoding layer down to JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "branch", Aliases: []string{"b"}, Required: true, Usage: "qa, stage, cert, ptb or live"},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "encrypted data; - reads stdin"},
			&cli.PathFlag{Name: "in", Aliases: []string{"i"}, Usage: "file with encrypted data"},
			&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "indent JSON output"},
		},
		Action: decrypt,
	}
}

func encryptCommand() *cli.Command {
	return &cli.Command{
		Name:  "encrypt",
		Usage: "encrypt JSON as asset content for a versioned key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Required: true, Usage: "versioned key id, e.g. 9.3.0_live"},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "plaintext; - reads stdin"},
			&cli.PathFlag{Name: "in", Aliases: []string{"i"}, Usage: "file with plaintext"},
		},
		Action: encrypt,
	}
}

func keysCommand() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "list loaded access key ids",
		Action: func(c *cli.Context) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range a.Keys.IDs() {
				fmt.Fprintln(c.App.Writer, id)
			}
			return nil
		},
	}
}

func branchesCommand() *cli.Command {
	return &cli.Command{
		Name:  "branches",
		Usage: "list branch codes",
		Action: func(c *cli.Context) error {
			for _, b := range codec.Branches {
				fmt.Fprintf(c.App.Writer, "%-6s %s\n", b, b.Name())
			}
			return nil
		},
	}
}

func decrypt(c *cli.Context) error {
	branch, err := codec.ParseBranch(c.String("branch"))
	if err != nil {
		return err
	}
	content, src, err := readInput(c)
	if err != nil {
		return err
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Codec.Decode(content, branch)
	if err != nil {
		return fmt.Errorf("decryption: %w", err)
	}
	if c.Bool("pretty") {
		out = codec.FormatJSON(out)
	}
	return emit(c, a.Config.OutputDir, src, output.ModeDecrypted, out)
}

func encrypt(c *cli.Context) error {
	plaintext, src, err := readInput(c)
	if err != nil {
		return err
	}

	a, err := setup(c)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.Codec.Encode(plaintext, c.String("key"))
	if err != nil {
		return fmt.Errorf("encryption: %w", err)
	}
	return emit(c, a.Config.OutputDir, src, output.ModeEncrypted, out)
}

func setup(c *cli.Context) (*app.App, error) {
	cfg, err := config.LoadCrypter(c.Path("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return app.New(c.Context, cfg)
}

// readInput returns the command input and, when it came from a file, its path.
func readInput(c *cli.Context) (string, string, error) {
	data, in := c.String("data"), c.Path("in")
	switch {
	case data != "" && in != "":
		return "", "", errors.New("--data and --in are mutually exclusive")
	case in != "":
		b, err := os.ReadFile(in)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", in, err)
		}
		slog.Debug("input loaded", "path", in, "bytes", len(b))
		return string(b), in, nil
	case data == "-":
		b, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), "", nil
	case data != "":
		return data, "", nil
	default:
		return "", "", errors.New("one of --data or --in is required")
	}
}

// emit saves file-sourced results under the output dir and prints the rest.
func emit(c *cli.Context, outDir, src, mode, data string) error {
	if src == "" {
		fmt.Fprintln(c.App.Writer, data)
		return nil
	}
	path, err := output.Save(outDir, src, mode, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Output saved to %s\n", path)
	return nil
}
