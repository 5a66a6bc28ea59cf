// Package bootstrap runs the process lifecycle shared by the long-running
// server and the one-shot CLI task: validated config, logger setup,
// ordered component start, hooks, signal handling and graceful shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(telemetry)
//	app.RegisterComponent(server.NewComponent(srv))
//	err = app.Run(ctx)
package bootstrap
