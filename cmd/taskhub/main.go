package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskhub/internal/app"
	"taskhub/internal/browse"
	"taskhub/internal/db"
	"taskhub/internal/domain"
	"taskhub/internal/notify"
	"taskhub/internal/remote"
	"taskhub/internal/server"
	"taskhub/internal/tasks"
)

var rootCmd = &cobra.Command{
	Use:   "taskhub",
	Short: "TaskHub CLI",
	Long: `TaskHub tracks your tasks locally and browses a public demo API.
Tasks live in a per-workspace store (.taskhub/) and survive restarts; the
users/posts browser fetches once, then searches and paginates client-side.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("TASKHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress notifications")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func registerCommands() {
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(themeCmd())
	rootCmd.AddCommand(serveCmd())
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	task.AddCommand(taskAddCmd())
	task.AddCommand(taskListCmd())
	task.AddCommand(taskToggleCmd())
	task.AddCommand(taskDeleteCmd())
	return task
}

func taskAddCmd() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				t, ok, err := a.Tasks.Add(ctx, text, priority)
				if err != nil {
					return err
				}
				if !ok {
					// whitespace-only input; nothing was created
					return nil
				}
				return printJSONOrIndent(t)
			})
		},
	}
	cmd.Flags().StringVar(&priority, "priority", domain.PriorityMedium, "priority (low, medium, high)")
	return cmd
}

func taskListCmd() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := tasks.FilterMode(filter)
			if !tasks.ValidFilter(mode) {
				return fmt.Errorf("unknown filter %q (all, active, completed)", filter)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				all := a.Tasks.All()
				visible := tasks.Filter(all, mode)
				counts := tasks.Counts(all)
				if viper.GetBool("json") {
					return printJSON(map[string]any{"items": visible, "counts": counts})
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Task", "Priority", "Status", "Created"})
				for _, t := range visible {
					status := "active"
					if t.Completed {
						status = "completed"
					}
					tw.AppendRow(table.Row{t.ID, t.Text, t.Priority, status, t.CreatedAt})
				}
				tw.Render()
				fmt.Printf("Total: %d  Active: %d  Completed: %d\n", counts.Total, counts.Active, counts.Completed)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "all", "filter (all, active, completed)")
	return cmd
}

func taskToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle task completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				t, ok, err := a.Tasks.Toggle(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("task %d not found", id)
				}
				return printJSONOrIndent(t)
			})
		},
	}
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				_, ok, err := a.Tasks.Delete(ctx, id)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("task %d not found", id)
				}
				return nil
			})
		},
	}
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show workspace status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				counts := tasks.Counts(a.Tasks.All())
				out := map[string]any{
					"workspace":   a.Workspace,
					"task_counts": counts,
					"theme":       a.Theme.Current(ctx),
				}
				if viper.GetBool("json") {
					return printJSON(out)
				}
				fmt.Printf("Workspace: %s\n", a.Workspace)
				fmt.Printf("Theme: %s\n", a.Theme.Current(ctx))
				fmt.Printf("Tasks: %d total, %d active, %d completed\n",
					counts.Total, counts.Active, counts.Completed)
				return nil
			})
		},
	}
	return cmd
}

func browseCmd() *cobra.Command {
	b := &cobra.Command{
		Use:   "browse",
		Short: "Browse remote users and posts",
		Long:  "Fetches the public demo API once per kind, then searches and paginates locally. Use refresh to re-fetch.",
	}
	b.AddCommand(browseKindCmd(remote.KindUsers))
	b.AddCommand(browseKindCmd(remote.KindPosts))
	b.AddCommand(browseRefreshCmd())
	return b
}

func browseKindCmd(kind remote.Kind) *cobra.Command {
	var search string
	var page int
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Browse %s", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				s := browse.NewSession(a.Cache)
				s.PageSize = a.Config.Browse.PageSize
				if err := s.Select(ctx, kind); err != nil {
					return err
				}
				s.Search(search)
				// page navigation saturates at the last page
				for i := 1; i < page; i++ {
					s.Next()
				}
				v := s.View()
				if viper.GetBool("json") {
					return printJSON(v)
				}
				renderBrowseView(v)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive search term")
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	return cmd
}

func browseRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh <users|posts>",
		Short: "Re-fetch a remote collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := remote.Kind(args[0])
			if !remote.ValidKind(kind) {
				return fmt.Errorf("unknown resource kind %q", args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Cache.Refresh(ctx, kind); err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]any{"kind": kind, "count": a.Cache.Len(kind)})
				}
				fmt.Printf("Refreshed %s: %d records\n", kind, a.Cache.Len(kind))
				return nil
			})
		},
	}
	return cmd
}

func renderBrowseView(v browse.View) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	switch v.Kind {
	case remote.KindUsers:
		tw.AppendHeader(table.Row{"ID", "Name", "Username", "Email", "Company", "City"})
		for _, u := range v.Users {
			tw.AppendRow(table.Row{u.ID, u.Name, "@" + u.Username, u.Email, u.Company.Name, u.Address.City})
		}
	case remote.KindPosts:
		tw.AppendHeader(table.Row{"ID", "User", "Title", "Body"})
		for _, p := range v.Posts {
			tw.AppendRow(table.Row{p.ID, p.UserID, p.Title, truncate(p.Body, 60)})
		}
	}
	tw.Render()
	if v.TotalPages == 0 {
		fmt.Printf("No %s found matching your search.\n", v.Kind)
		return
	}
	fmt.Printf("Page %d of %d (%d of %d records match)\n", v.Page, v.TotalPages, v.Matches, v.Total)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if viper.GetBool("json") {
					return printJSON(map[string]string{"theme": a.Theme.Current(ctx)})
				}
				fmt.Println(a.Theme.Current(ctx))
				return nil
			})
		},
	}
	cmd.AddCommand(themeToggleCmd())
	return cmd
}

func themeToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Toggle dark mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				next, err := a.Theme.Toggle(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]string{"theme": next})
				}
				fmt.Println(next)
				return nil
			})
		},
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				handler, err := server.New(server.Config{App: a, BasePath: basePath})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("Serving TaskHub API on http://%s%s\n", addr, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	var notifier notify.Notifier = notify.Console{Out: os.Stderr}
	if viper.GetBool("quiet") {
		notifier = notify.Discard{}
	}
	a, err := app.Open(ctx, viper.GetString("workspace"), notifier)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSONOrIndent(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
