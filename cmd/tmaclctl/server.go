package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/audit"
	"github.com/perimetra/tmacl/pkg/config"
	"github.com/perimetra/tmacl/pkg/db"
	"github.com/perimetra/tmacl/pkg/lock"
	"github.com/perimetra/tmacl/pkg/server"
	"github.com/perimetra/tmacl/pkg/server/endpoints"
	"github.com/perimetra/tmacl/pkg/server/middleware"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the tmacl application server",
	Long: `Run the tmacl application server.

To run the server requires the environment variables TMACL_JWT_SECRET
and DATABASE_URL.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		jwtSecret, ok := os.LookupEnv("TMACL_JWT_SECRET")
		if !ok || jwtSecret == "" {
			fmt.Fprintln(os.Stderr, "TMACL_JWT_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Config already layers env over file, so it is authoritative here.
		audit.SetEnabled(cfg.AuditEnabled)

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		aclService := acl.NewService(database,
			acl.WithDerivedManager(acl.NewDerivedPermissionsManager(cfg.ProjectClassNames...)),
			acl.WithDebug(os.Getenv("TMACL_LOG_LEVEL") == "debug"),
		)

		jwtMiddleware := middleware.NewJWTAuthenticator([]byte(jwtSecret))

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(aclService, lock.NewManager(), database, cfg, jwtMiddleware, host, port)

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	cfg := config.Get()
	serverCmd.Flags().StringP("port", "p", strconv.Itoa(cfg.Port), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", cfg.BindAddress, "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
