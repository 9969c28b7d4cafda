package segmentation

import "go.uber.org/fx"

// FXModule wires the segmentation client into Fx and binds it to the
// Segmenter interface the pipeline stages depend on.
var FXModule = fx.Module("segmentation",
	fx.Provide(
		NewConfig,
		NewClient,
		func(c *Client) Segmenter { return c },
	),
)
