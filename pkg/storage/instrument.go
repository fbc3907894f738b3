package storage

import (
	"context"
	"time"
)

// Observer receives timing for every backend call.
type Observer interface {
	ObserveStore(op, namespace string, elapsed time.Duration, err error)
}

// Instrument wraps backend so each call is reported to obs.
func Instrument(backend Backend, obs Observer) Backend {
	if obs == nil {
		return backend
	}
	return &instrumented{next: backend, obs: obs}
}

type instrumented struct {
	next Backend
	obs  Observer
}

func (i *instrumented) Load(ctx context.Context, namespace string) (map[string]string, error) {
	start := time.Now()
	values, err := i.next.Load(ctx, namespace)
	i.obs.ObserveStore("load", namespace, time.Since(start), err)
	return values, err
}

func (i *instrumented) Save(ctx context.Context, namespace string, values map[string]string) error {
	start := time.Now()
	err := i.next.Save(ctx, namespace, values)
	i.obs.ObserveStore("save", namespace, time.Since(start), err)
	return err
}

func (i *instrumented) Namespaces(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := i.next.Namespaces(ctx)
	i.obs.ObserveStore("namespaces", "", time.Since(start), err)
	return names, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
