// Package commands implements the calc command line.
//
// Usage:
//
//	calc add 2 3                   # 5
//	calc divide 6 2                # 3.0
//	calc multiply 2 3 --user alice --allow alice
//	calc multiply 2 3 --policy policy.yaml
//	calc subtract -- -2 3          # negative operands after --
//	calc operations
//	calc add 2 3 --server localhost:50051   # evaluate on a gRPC server
//	calc permissions grant alice "2 * *" --redis localhost:6379
package commands
