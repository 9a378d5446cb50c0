package main

import (
	"context"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/metrics"
	clientsvc "invoicedesk/internal/service/client"
)

// countingDirectory keeps the directory size gauge in step with writes.
type countingDirectory struct {
	*clientsvc.Directory
	metrics *metrics.Metrics
}

func (d *countingDirectory) Add(ctx context.Context, in clientsvc.Input) (domain.Client, error) {
	c, err := d.Directory.Add(ctx, in)
	d.refresh(ctx)
	return c, err
}

func (d *countingDirectory) Delete(ctx context.Context, id string) error {
	err := d.Directory.Delete(ctx, id)
	d.refresh(ctx)
	return err
}

func (d *countingDirectory) refresh(ctx context.Context) {
	if list, err := d.Directory.List(ctx); err == nil {
		d.metrics.SetClients(len(list))
	}
}
