package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/podsync-server/api"
	"github.com/carson-networks/podsync-server/internal/config"
	"github.com/carson-networks/podsync-server/internal/identity"
	"github.com/carson-networks/podsync-server/internal/logging"
	"github.com/carson-networks/podsync-server/internal/operator"
	"github.com/carson-networks/podsync-server/internal/sequence"
	"github.com/carson-networks/podsync-server/internal/service"
	"github.com/carson-networks/podsync-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("podsync-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage := storage.NewStorage(envConfig)

	delegator := operator.NewOperatorDelegator(dbStorage, 4)
	delegator.Start()
	defer delegator.Stop()

	identityClient := identity.NewClient(envConfig.IdentityURL, envConfig.IdentityAnonKey)
	sequenceClient := sequence.NewClient(envConfig.SequenceAccessToken, envConfig.SequenceCandidateURLs)

	svc := service.NewService(identityClient, sequenceClient, delegator, dbStorage)

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    "9446",
			Service: svc,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
