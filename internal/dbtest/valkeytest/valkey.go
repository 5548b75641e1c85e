// Package valkeytest starts a throwaway ValKey container for tests.
package valkeytest

import (
	"context"
	"net"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/valkey-io/valkey-go"

	valkeycontainer "github.com/testcontainers/testcontainers-go/modules/valkey"
)

const image = "valkey/valkey:8-alpine"

// Start runs a ValKey container and returns a client connected to it. The
// client and the container are released when the test finishes.
func Start(t *testing.T) valkey.Client {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := t.Context()

	valkeyContainer, err := valkeycontainer.Run(ctx, image)
	if err != nil {
		t.Fatalf("starting ValKey container: %s", err)
	}

	t.Cleanup(func() {
		if err := valkeyContainer.Terminate(context.Background()); err != nil {
			t.Errorf("terminating ValKey container: %s", err)
		}
	})

	port, err := valkeyContainer.MappedPort(ctx, nat.Port("6379"))
	if err != nil {
		t.Fatalf("mapping a port for the ValKey container: %s", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{net.JoinHostPort("localhost", port.Port())},
	})
	if err != nil {
		t.Fatalf("initialising a ValKey client: %s", err)
	}
	t.Cleanup(client.Close)

	return client
}
