// Command cytosearch runs the cell analysis backend: the acquisition,
// segmentation and record-building job workers together with the vector
// store, artifact store and metrics endpoint.
package main

import (
	"flag"
	"log"

	"go.uber.org/fx"

	"github.com/cytosearch/cytosearch/v1/acquisition"
	"github.com/cytosearch/cytosearch/v1/cellstore"
	"github.com/cytosearch/cytosearch/v1/config"
	"github.com/cytosearch/cytosearch/v1/embedding"
	"github.com/cytosearch/cytosearch/v1/jobs"
	"github.com/cytosearch/cytosearch/v1/logger"
	"github.com/cytosearch/cytosearch/v1/metrics"
	"github.com/cytosearch/cytosearch/v1/minio"
	"github.com/cytosearch/cytosearch/v1/pipeline"
	"github.com/cytosearch/cytosearch/v1/qdrant"
	"github.com/cytosearch/cytosearch/v1/segmentation"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file; environment variables apply when omitted")
	simulate := flag.Bool("simulate", false, "use a simulated microscope instead of real acquisition hardware")
	flag.Parse()

	file := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading configuration: %v", err)
		}
		file = loaded
	}

	opts := []fx.Option{
		// Each module reads its own environment configuration; the file,
		// when given, takes precedence.
		fx.Replace(
			file.Metrics,
			&file.Qdrant,
			&file.CellStore,
			&file.Minio,
			&file.Embedding,
			&file.Segmentation,
		),
		fx.Provide(
			func() logger.Config { return file.Logger },
			func() jobs.Config { return file.Jobs },
		),
		logger.FXModule,
		metrics.FXModule,
		qdrant.FXModule,
		cellstore.FXModule,
		minio.FXModule,
		embedding.FXModule,
		segmentation.FXModule,
		pipeline.FXModule,
		jobs.FXModule,
	}

	if *simulate {
		opts = append(opts, fx.Provide(
			func() acquisition.Service { return acquisition.NewSimulator(1024, 1024, 1) },
		))
	}

	fx.New(opts...).Run()
}
