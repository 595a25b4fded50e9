package main

import (
	"fmt"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var skipMovies bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and import the starter catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			cfg := ctx.config()
			seed := ctx.seedService(db)
			out := cmd.OutOrStdout()

			created, err := seed.EnsureAdmin(cmd.Context(), cfg.AdminEmail, cfg.AdminPassword)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Admin account created: %s\n", cfg.AdminEmail)
			} else {
				fmt.Fprintf(out, "Admin account already exists: %s\n", cfg.AdminEmail)
			}

			if skipMovies {
				return nil
			}
			imported, err := seed.SeedMovies(cmd.Context(), services.SeedMovieIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Movies imported: %d\n", imported)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipMovies, "skip-movies", false, "Only create the admin account")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database()
			if err != nil {
				return err
			}
			stats := services.NewStatisticsService(repository.NewMovieRepository(db), nil, 0)
			c := cmd.Context()
			out := cmd.OutOrStdout()

			total, err := stats.TotalMovies(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Movies: %d\n", total)

			genres, err := stats.Genres(c)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(genres))
			for _, g := range genres {
				rows = append(rows, []string{g.Genre, strconv.FormatInt(g.Count, 10)})
			}
			fmt.Fprintln(out, renderTable("Genres", []string{"Genre", "Movies"}, rows, []columnAlignment{alignLeft, alignRight}))

			years, err := stats.YearsDistribution(c)
			if err != nil {
				return err
			}
			rows = rows[:0]
			for _, y := range years {
				rows = append(rows, []string{strconv.Itoa(y.Year), strconv.FormatInt(y.Count, 10)})
			}
			fmt.Fprintln(out, renderTable("Years", []string{"Year", "Movies"}, rows, []columnAlignment{alignRight, alignRight}))

			directors, err := stats.TopDirectors(c, top)
			if err != nil {
				return err
			}
			rows = rows[:0]
			for _, d := range directors {
				rows = append(rows, []string{d.Director, strconv.FormatInt(d.Count, 10)})
			}
			fmt.Fprintln(out, renderTable("Top directors", []string{"Director", "Movies"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", services.DefaultTopDirectors, "Number of directors to list")
	return cmd
}

func newCreateUserCommand(ctx *commandContext) *cobra.Command {
	var (
		email     string
		password  string
		role      string
		firstName string
		lastName  string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an active account with the given role",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := models.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q (want User, Editor or Admin)", role)
			}
			db, err := ctx.database()
			if err != nil {
				return err
			}

			user, err := ctx.seedService(db).CreateUser(cmd.Context(), email, password, firstName, lastName, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "User, Editor or Admin")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
