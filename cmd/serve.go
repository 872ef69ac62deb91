package main

import (
	"context"
	"net"
	"strconv"

	"github.com/desertthunder/cocktailparty/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the local JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host, port := r.config.Server.Host, r.config.Server.Port
	if h := cmd.String("host"); h != "" {
		host = h
	}
	if p := int(cmd.Int("port")); p > 0 {
		port = p
	}

	store, err := r.Store(ctx)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	router := server.NewRouter(store, r.cocktails, r.logger)
	r.writePlain("Serving on http://%s (ctrl+c to stop)\n", addr)
	return server.New(addr, router, r.logger).Run(ctx)
}
