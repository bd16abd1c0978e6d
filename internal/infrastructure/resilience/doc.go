/*
Package resilience provides the circuit breaker that guards remote permission
backends (Redis, authorization service).

# States

- Closed: calls pass through; failures are counted
- Open: calls fail immediately with ErrCircuitOpen
- Half-Open: up to MaxRequests trial calls decide whether to close again

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[successes]-> Closed
	                                                |
	                                            [failure]
	                                                v
	                                              Open

# Usage

	breaker := resilience.New("permissions-redis", resilience.Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: resilience.ConsecutiveFailures(5),
	})

	allowed, err := resilience.Do(ctx, breaker, func(ctx context.Context) (bool, error) {
		return backend.Allowed(ctx, operation, user)
	})
*/
package resilience
