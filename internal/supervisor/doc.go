// ShopAI Recommender - Hybrid Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopai-recommender

/*
Package supervisor provides the suture process tree that runs the serve
command.

Tree layout:

	shopai-recommender (root)
	├── data-layer
	│   └── train-service      scheduled and on-demand training
	├── messaging-layer
	│   └── reload-service     reloads the artifact on model events
	└── api-layer
	    └── http-server        chi router

Each layer restarts its own services with exponential backoff. Supervisor
events are logged through the zerolog slog bridge:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(trainSvc)
	tree.AddMessagingService(reloadSvc)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err = tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
