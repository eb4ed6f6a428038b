package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/linkcalc/internal/api/handlers"
	"github.com/RMahshie/linkcalc/internal/calculator"
	"github.com/RMahshie/linkcalc/internal/chart"
	"github.com/RMahshie/linkcalc/internal/ui"
)

// RegisterRoutes sets up the JSON API operations
func RegisterRoutes(api huma.API, calc calculator.CalculatorService, chartOpts chart.Options) {
	// Initialize handlers
	linkHandler := handlers.NewLinkHandler(calc, chartOpts)

	huma.Register(api, huma.Operation{
		OperationID: "getDefaults",
		Method:      http.MethodGet,
		Path:        "/api/link/defaults",
		Summary:     "Get default inputs",
		Description: "Returns the parameter set the calculator page resets to",
		Tags:        []string{"Link"},
	}, linkHandler.Defaults)

	huma.Register(api, huma.Operation{
		OperationID: "calculateSingle",
		Method:      http.MethodPost,
		Path:        "/api/link/single",
		Summary:     "Calculate a single-frequency link",
		Description: "Returns free-space path loss and received power at one frequency",
		Tags:        []string{"Link"},
	}, linkHandler.Single)

	huma.Register(api, huma.Operation{
		OperationID: "calculateSweep",
		Method:      http.MethodPost,
		Path:        "/api/link/sweep",
		Summary:     "Calculate a frequency sweep",
		Description: "Returns path loss and received power at every frequency of an inclusive range, at most 3000 samples",
		Tags:        []string{"Link"},
	}, linkHandler.Sweep)

	huma.Register(api, huma.Operation{
		OperationID: "renderSweepChart",
		Method:      http.MethodPost,
		Path:        "/api/link/sweep/chart",
		Summary:     "Render a sweep chart",
		Description: "Returns a PNG line chart of received power over the sweep",
		Tags:        []string{"Link"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "PNG image",
				Content: map[string]*huma.MediaType{
					"image/png": {},
				},
			},
		},
	}, linkHandler.SweepChart)
}

// RegisterPageRoutes sets up the interactive calculator page
func RegisterPageRoutes(router chi.Router, sessions *ui.Sessions, ttl time.Duration) {
	pageHandler := handlers.NewPageHandler(sessions, ttl)

	router.Get("/", pageHandler.Show)
	router.Post("/calculate", pageHandler.Calculate)
	router.Post("/reset", pageHandler.Reset)
	router.Post("/mode/{mode}", pageHandler.SetMode)
	router.Get("/chart.png", pageHandler.Chart)
}
