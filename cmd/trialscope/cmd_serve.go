package main

import (
	"github.com/spboyer/trialscope/internal/webserver"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var (
		port    int
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trials and analyses API over HTTP",
		Long: `Serve a read-only HTTP API over the trials directory.

Routes:
  GET /api/health
  GET /api/trials                          trials that have an analysis
  GET /api/trials/{id}/analysis            most recent analysis
  GET /api/trials/{id}/analyses            every stored analysis
  GET /api/trials/{id}/analyses/{name}     one stored analysis
  GET /api/trials/{id}/video               session recording (range requests)
  GET /api/trials/{id}/transcript          transcript PDF

The server binds to 127.0.0.1 only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Server.Port
			}
			srv, err := webserver.New(webserver.Config{
				Port:           port,
				Layout:         a.layout(),
				AllowedOrigins: origins,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to listen on (default from .trialscope.yaml)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin (repeatable)")
	return cmd
}
