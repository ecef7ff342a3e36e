package deployer

import "errors"

// ErrChartPathRequired is returned when a deployer is created without a
// chart path.
var ErrChartPathRequired = errors.New("deployer: chart path is required")
