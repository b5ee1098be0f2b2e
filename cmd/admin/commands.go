package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"employee-portal/internal/core/config"
	"employee-portal/internal/core/logger"
	"employee-portal/internal/domain"
	"employee-portal/internal/repo"
	"employee-portal/internal/service"
)

// env holds what every subcommand needs once the store is open.
type env struct {
	cfgPath string
	log     *zap.Logger
	flush   func()
	stores  *repo.Stores
	admins  *service.AdminService
}

// newRootCmd returns the command tree and a func releasing whatever the
// executed subcommand opened.
func newRootCmd() (*cobra.Command, func()) {
	e := &env{}
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Manage employee portal operator accounts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&e.cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	root.AddCommand(
		createCmd(e),
		passwdCmd(e),
		deleteCmd(e),
		listCmd(e),
	)
	return root, e.close
}

func (e *env) open(ctx context.Context) error {
	cfg, err := config.Load(e.cfgPath)
	if err != nil {
		return err
	}
	e.log, e.flush = logger.New(cfg.Log)
	e.stores, err = repo.Open(ctx, cfg.DB, e.log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	e.admins = service.NewAdminService(e.stores.Admins, service.AdminOptions{Timeout: cfg.DB.QueryTimeout()})
	return nil
}

func (e *env) close() {
	if e.stores != nil {
		_ = e.stores.Close()
	}
	if e.flush != nil {
		e.flush()
	}
}

func passwordFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "password", "p", "", "password, at least 8 characters (read from stdin when empty)")
}

// readPassword falls back to the first line of stdin so the secret can be piped
// instead of landing in shell history.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	b, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 4096))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimRight(pw, "\r"), nil
}

func createCmd(e *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			a, err := e.admins.Provision(cmd.Context(), args[0], pw)
			if err != nil {
				return describe(err, args[0])
			}
			e.log.Info("admin created", zap.String("username", a.Username))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", a.Username)
			return nil
		},
	}
	passwordFlag(cmd, &password)
	return cmd
}

func passwdCmd(e *env) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd USERNAME",
		Short: "Replace an operator's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password)
			if err != nil {
				return err
			}
			if err = e.admins.SetPassword(cmd.Context(), args[0], pw); err != nil {
				return describe(err, args[0])
			}
			e.log.Info("admin password changed", zap.String("username", args[0]))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args[0])
			return nil
		},
	}
	passwordFlag(cmd, &password)
	return cmd
}

func deleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete USERNAME",
		Short: "Delete an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.admins.Remove(cmd.Context(), args[0]); err != nil {
				return describe(err, args[0])
			}
			e.log.Info("admin deleted", zap.String("username", args[0]))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func listCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List operator accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := e.admins.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "USERNAME\tCREATED\tUPDATED")
			for _, a := range list {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Username,
					a.CreatedAt.Format(time.DateTime), a.UpdatedAt.Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func describe(err error, username string) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return fmt.Errorf("invalid input: %w", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("admin %q does not exist", username)
	case errors.Is(err, domain.ErrDuplicateKey):
		return fmt.Errorf("admin %q already exists", username)
	}
	return err
}
