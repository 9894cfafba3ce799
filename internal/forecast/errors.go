package forecast

import "errors"

// ErrDataUnavailable means no candidate date in the dataset yields any
// forecast record. It is fatal for the run.
var ErrDataUnavailable = errors.New("no forecast data available for any candidate date")
