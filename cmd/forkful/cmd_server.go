package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forkful/forkful/app/controllers"
	"github.com/forkful/forkful/app/routes"
	"github.com/forkful/forkful/internal/server"
	"github.com/forkful/forkful/pkg/router"
)

// forkful serve — start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}

// forkful route:list — print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Zero-value controllers: handlers are registered, never invoked.
		r := router.New()
		routes.RegisterAPI(r, routes.Controllers{
			Auth:       controllers.NewAuthController(nil),
			Restaurant: controllers.NewRestaurantController(nil),
			Meal:       controllers.NewMealController(nil),
		})

		infos := r.Routes()
		if len(infos) == 0 {
			fmt.Println("No named routes registered.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
