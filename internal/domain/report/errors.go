package report

import "errors"

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrNotPending        = errors.New("only pending reports can start processing")
	ErrNotProcessing     = errors.New("only processing reports can be completed")
	ErrCannotFail        = errors.New("only pending or processing reports can fail")
	ErrNotFailed         = errors.New("only failed reports can be retried")
	ErrProcessing        = errors.New("report is being processed")
	ErrNotReady          = errors.New("report is not completed yet")
	ErrUnsupportedFormat = errors.New("report format is not available for download")
	ErrInvalidType       = errors.New("invalid report type")
	ErrInvalidPeriod     = errors.New("invalid report period")
	ErrInvalidFormat     = errors.New("invalid report format")
)
