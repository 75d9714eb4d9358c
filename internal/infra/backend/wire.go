package backend

import "github.com/google/wire"

var BackendSet = wire.NewSet(
	NewMockClient,
	wire.Bind(new(MockClientIface), new(*MockClient)),
)
