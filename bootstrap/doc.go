// Package bootstrap runs reqkit commands inside a uniform lifecycle: typed
// config, logger initialisation, component start and stop, and cancellation
// on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(httpclient.NewComponent(cfg.HTTP))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return send(ctx)
//	})
package bootstrap
