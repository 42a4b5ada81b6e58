package container

import (
	"context"

	"sponsor/etl/internal/client"
	"sponsor/etl/internal/config"
	"sponsor/etl/internal/harvest"
	"sponsor/etl/internal/service"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Sheets  client.SheetsClient
	Drive   client.DriveClient
	Service *service.Service
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) *Container {
	sheets := client.NewSheetsClient(cfg.Spreadsheet, cfg.Client)
	drive := client.NewDriveClient(cfg.Drive, cfg.Client)
	harvester := harvest.NewHarvester(drive, cfg.Output.ImagesDir)

	return &Container{
		Config:  cfg,
		Sheets:  sheets,
		Drive:   drive,
		Service: service.NewService(sheets, harvester, cfg),
	}
}

// Run executes one full pipeline build
func (c *Container) Run(ctx context.Context) error {
	return c.Service.Run(ctx)
}
