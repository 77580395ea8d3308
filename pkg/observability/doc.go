/*
Package observability turns tree lifecycle events into logs and Prometheus metrics.

Everything here is expressed as domain.LifecycleHooks, so it plugs into arbor.WithLifecycleHooks:

	metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	hooks := observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))
	tree, err := builder.Build(arbor.WithLifecycleHooks(hooks))
*/
package observability
