package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"gamecatalog/internal/client"
	"gamecatalog/internal/database"
	"gamecatalog/internal/events"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/valkey-io/valkey-go"
)

func newSession(v *viper.Viper) *client.Session {
	return client.NewSession(client.New(v.GetString(keyAPIURL)))
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid game id %q", arg)
	}
	return id, nil
}

func addFormFlags(flags *pflag.FlagSet) {
	flags.String("title", "", "game title")
	flags.String("genre", "", "game genre")
	flags.String("platform", "", "game platform")
	flags.Int("year", 0, "release year")
	flags.Float64("rating", 0, "rating from 0 to 10")
	flags.Bool("no-rating", false, "clear the rating")
	flags.String("description", "", "free-form description")
}

// applyFormFlags copies only the flags the user set onto form.
func applyFormFlags(flags *pflag.FlagSet, form client.GameForm) client.GameForm {
	if flags.Changed("title") {
		form.Title, _ = flags.GetString("title")
	}
	if flags.Changed("genre") {
		form.Genre, _ = flags.GetString("genre")
	}
	if flags.Changed("platform") {
		form.Platform, _ = flags.GetString("platform")
	}
	if flags.Changed("year") {
		form.ReleaseYear, _ = flags.GetInt("year")
	}
	if flags.Changed("rating") {
		rating, _ := flags.GetFloat64("rating")
		form.Rating = &rating
	}
	if unset, _ := flags.GetBool("no-rating"); unset {
		form.Rating = nil
	}
	if flags.Changed("description") {
		form.Description, _ = flags.GetString("description")
	}
	return form
}

func newListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every game, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newSession(v)
			if err := session.Refresh(); err != nil {
				return err
			}

			if len(session.Games) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No games in the catalog yet")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), session.Games)
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			game, err := client.New(v.GetString(keyAPIURL)).GetGame(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), game)
		},
	}
}

func newCreateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a game to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := applyFormFlags(cmd.Flags(), client.GameForm{})

			message, err := newSession(v).Save(form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	addFormFlags(cmd.Flags())
	return cmd
}

func newUpdateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a game; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			session := newSession(v)
			if err := session.Refresh(); err != nil {
				return err
			}

			form, ok := session.BeginEdit(id)
			if !ok {
				return fmt.Errorf("game %d not found", id)
			}

			message, err := session.Save(applyFormFlags(cmd.Flags(), form))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	addFormFlags(cmd.Flags())
	return cmd
}

func newDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			message, err := newSession(v).Delete(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}

func newWatchCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream catalog change events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address := v.GetString(keyValkeyAddr)
			if address == "" {
				return fmt.Errorf("--valkey-address is required to watch events")
			}

			valkeyClient, err := valkey.NewClient(valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, v.GetInt(keyValkeyPort))},
				SelectDB:    database.EVENTS_CACHE_INDEX,
			})
			if err != nil {
				return fmt.Errorf("failed to connect to valkey: %w", err)
			}
			defer valkeyClient.Close()

			bus := events.New(valkeyClient)
			defer bus.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Watching catalog changes, press Ctrl+C to stop")

			return bus.Listen(ctx, events.GAMES_CHANNEL, func(event events.Event) error {
				_, err := fmt.Fprintf(out, "%s  %-13s game %d %v\n",
					event.Timestamp.Format("15:04:05"), event.Type, event.GameID, event.Data)
				return err
			})
		},
	}
}
