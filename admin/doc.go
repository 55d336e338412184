// Package admin assembles a guarded operator subtree (http.Handler) for a
// touch boost daemon.
//
// admin wires the handlers of package ops, promhttp and a few httpx
// middlewares into one net/http handler. Mount it on its own listener or
// under a prefix of an existing mux:
//
//	mux := http.NewServeMux()
//	mux.Handle("/-/", http.StripPrefix("/-", admin.New(...)))
//
// # Rules
//
// Nothing is mounted unless enabled with an EnableXxx option, and every
// enabled capability needs a non-nil Guard. Each capability owns exactly one
// path. Invalid assembly (nil Guard, nil dependency, invalid or duplicated
// Path) panics at New.
//
// Read endpoints accept GET and HEAD. Write endpoints accept POST only.
//
// # Guards
//
//	admin.AllowAll()
//	admin.DenyAll()
//	admin.Tokens([]string{"s3cr3t"})            // X-Access-Token
//	admin.Check(func(r *http.Request) bool {...})
//
// Denied requests get 403 with an empty body.
//
// # Attribute access
//
// Attribute endpoints take an AttrAccessSpec. Reads with an empty spec see
// every attribute; writes with an empty spec are denied (fail-closed), so a
// write endpoint does nothing until names are allowed explicitly:
//
//	admin.EnableAttrStore(admin.AttrStoreSpec{
//		Guard:   writeGuard,
//		Gateway: gw,
//		Access:  admin.AttrAccessSpec{AllowNames: []string{"boost-enabled"}},
//	})
//
// # Default paths
//
//	/healthz                 /readyz
//	/attrs/snapshot          /attrs/show?name=
//	/attrs/store?name=&value=
//	/attrs/reset-default?name=
//	/attrs/reset-last?name=
//	/log/level               /log/level/set?level=
//	/metrics
//
// ops endpoints answer text by default and JSON with ?format=json.
//
// # Middlewares
//
// The whole subtree runs behind httpx.Recover, httpx.RequestID and
// httpx.AccessLog, using the logger from WithLogger.
package admin
