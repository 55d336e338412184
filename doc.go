// Package touchboost assembles a touch boost control daemon: a boost.Store
// of three tunables, exposed as file-like attributes over HTTP, plus an
// operator admin subtree.
//
// # Quick start
//
//	st, err := boost.New(boost.WithLevelSource(cpufreq.Sysfs{CPU: 0}))
//	if err != nil {
//		return err
//	}
//	svc := touchboost.NewDefaultService(touchboost.ServiceSpec{
//		Store: st,
//		Attr:  touchboost.AttrServerSpec{Addr: ":8080"},
//		Admin: &touchboost.ServiceAdminSpec{
//			Addr: "127.0.0.1:8081",
//			Spec: touchboost.AdminSpec{ReadGuard: touchboost.Tokens([]string{"s3cr3t"})},
//		},
//	})
//	return svc.Run(ctx)
//
// The attribute surface lives under /touchboost_switch/:
//
//	GET  /touchboost_switch/boost-level        -> "600000 - Touchboost frequency\n"
//	PUT  /touchboost_switch/boost-level  900000 -> "6\n"
//
// Writes are parsed, validated and committed per attribute; a rejected write
// leaves the value unchanged. See package attr for the error kinds.
//
// # Admin
//
// NewDefaultAdmin mounts health, readiness (including the legal-level
// source), attribute inspection, log level and Prometheus metrics behind a
// read Guard. Write endpoints are off unless AdminSpec.Writes is set, and
// then only for the attribute names it lists.
//
// # Subpackages
//
//   - rt/boost: the parameter store and its validation rules
//   - rt/cpufreq: legal-level sources backed by cpufreq sysfs
//   - attr, attr/attrhttp: the attribute gateway and its HTTP surface
//   - admin, ops: the operator subtree and its handlers
//   - httpx, httpx/client: middlewares and a client for the attribute surface
package touchboost
