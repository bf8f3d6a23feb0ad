package app

import (
	"github.com/forkful/forkful-backend/internal/clients/gcp"
	"github.com/forkful/forkful-backend/internal/clients/places"
	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/realtime/bus"
)

type Clients struct {
	Bucket gcp.BucketService
	Places places.Provider
	Bus    bus.Bus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, err
	}
	provider, err := places.NewHTTPProvider(log)
	if err != nil {
		return Clients{}, err
	}
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		return Clients{}, err
	}
	return Clients{Bucket: bucket, Places: provider, Bus: eventBus}, nil
}
