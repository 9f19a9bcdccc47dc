package service_test

import (
	"context"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

func domainDisconnectSignal(ch chan<- struct{}) domain.ConnectionHooks {
	return domain.ConnectionHooks{
		OnDisconnect: func(context.Context, *domain.ConnectionEvent) {
			select {
			case ch <- struct{}{}:
			default:
			}
		},
	}
}
