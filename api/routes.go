package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/podsync-server/internal/handlers/v1/pods"
	"github.com/carson-networks/podsync-server/internal/handlers/v1/status"
	"github.com/carson-networks/podsync-server/internal/handlers/v1/syncpods"
	"github.com/carson-networks/podsync-server/internal/logging"
	"github.com/carson-networks/podsync-server/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

func (r *Rest) Serve() {
	statusHandler := status.NewHandler()
	syncHandler := syncpods.NewHandler(r.Service.PodSync)

	mux := http.NewServeMux()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))
	mux.HandleFunc("/sync-pods", logging.LoggingWrapper("SyncPods", r.Logger, syncHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("podsync-server", "1.0.0"))
	pods.NewListPodsHandler(r.Service.PodList).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
