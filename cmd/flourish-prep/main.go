package main

import (
	"fmt"
	"os"

	"github.com/hotelviz/flourish-prep/internal/adapter/driven/config"
	"github.com/hotelviz/flourish-prep/internal/adapter/driven/dataset"
	"github.com/hotelviz/flourish-prep/internal/adapter/driven/export"
	"github.com/hotelviz/flourish-prep/internal/adapter/driving/cli"
	"github.com/hotelviz/flourish-prep/internal/application/usecase"
	"github.com/hotelviz/flourish-prep/pkg/console"
	"github.com/hotelviz/flourish-prep/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	datasetRepo := dataset.NewDatasetRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	prepareUseCase := usecase.NewPrepareUseCase(
		datasetRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetPrepareUseCase(prepareUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
