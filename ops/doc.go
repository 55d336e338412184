// Package ops provides net/http handlers for the operational side of a touch
// boost daemon.
//
// ops does not choose routing paths, does not authenticate callers and does
// not start servers. Mount its handlers wherever you like and protect them with
// your own middleware (admin does both).
//
// # Formats
//
// Handlers render line-based text by default. The default can be changed by
// options and overridden per request with ?format=text or ?format=json.
//
// Text lines are tab-separated and greppable, for example:
//
//	attr	boost-duration-ms	value	40
//	attr	boost-duration-ms	default	40
//	attr	boost-duration-ms	source	default
//
// # What ops provides
//
//   - attributes: AttrsSnapshotHandler, AttrShowHandler, AttrStoreHandler,
//     AttrResetDefaultHandler, AttrResetLastHandler (attr.Gateway integration)
//   - health: HealthzHandler, ReadyzHandler, LevelSourceCheck
//   - logging: LogLevelGetHandler, LogLevelSetHandler (slog.LevelVar)
//
// Write handlers are POST only. Restrict them with WithAttrAllowNames.
package ops
