package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dig_container "github.com/2023UCA1802/Infosys-Study-AI-Recommender/apps/api/di/dig"
	echoapi "github.com/2023UCA1802/Infosys-Study-AI-Recommender/apps/api/echo"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

func startWithDig() {
	c := dig_container.New(core.NewConfig)

	// validators must be registered before the first request is bound
	must(c.Invoke(func(validate *validator.Validate, translator ut.Translator) {
		core.InitValidators(validate, translator)
		user.InitValidators(validate, translator)
		schedule.InitValidators(validate)
		studylog.InitValidators(validate)
	}))

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		storage *dig_container.Storage,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		core.ParseEmailTemplates(apiLogger, conf.Debug || conf.TestMode)

		dbLogger := dbLoggerParam.Logger
		defer func() {
			storage.Stop()
			if storage.Client == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
			defer cancel()
			if err := storage.Client.Disconnect(ctx); err != nil {
				dbLogger.Error("Failed to disconnect", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/vars - Added to the default mux by importing the expvar package.
		// /metrics - Prometheus collectors registered through promauto.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)
		expvar.NewString("database").Set(conf.Database.Engine)

		http.Handle("/metrics", promhttp.Handler())

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Error(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
