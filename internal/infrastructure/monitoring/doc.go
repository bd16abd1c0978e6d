/*
Package monitoring provides Prometheus metrics for the calculator service.

Metrics:
  - calc_http_requests_total, calc_http_request_duration_seconds
  - calc_operations_total{operation,outcome}, calc_operation_duration_seconds
  - calc_permission_checks_total{backend,decision}
  - calc_uptime_seconds plus Go runtime and process collectors

Each Metrics owns its registry, so several servers (or tests) can coexist in
one process.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "divide")
	result, err := calc.Divide(ctx, x, y)
	timer.Stop(calculator.Kind(err))
*/
package monitoring
