package errkind

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/futig/rag-query-client/internal/entity"
)

// Kind is the user-facing class of a failed submission
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindTransport  Kind = "transport_error"
	KindContent    Kind = "content_error"
	KindTimeout    Kind = "timeout"
	KindInternal   Kind = "internal_error"
)

// User messages
const (
	MsgEmptyPrompt     = "Please enter a valid query."
	MsgMissingFile     = "Please upload a PDF and enter a query."
	MsgInvalidFile     = "Only PDF files are supported."
	MsgFileTooLarge    = "The file is too large."
	MsgUnknownModel    = "Please pick a model from the list."
	MsgInvalidInput    = "Some of the selected options are not valid."
	MsgUnreachable     = "The RAG backend is unreachable. Please try again later."
	MsgReportFailed    = "Something went wrong"
	MsgDocumentFailed  = "Error: Could not process PDF."
	MsgTimeout         = "The request took too long. Please try again."
	MsgInternalFailure = "Unexpected error. Please try again."
)

// Classified carries everything a front end needs to report an error
type Classified struct {
	Kind    Kind
	Status  int
	Message string
	Stage   entity.Stage
}

// Classify maps an error from the query use case onto a user-facing class.
// Content failures keep the report / document wording of the original UI.
func Classify(err error) Classified {
	var stage entity.Stage
	var stageErr *entity.StageError
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
	}

	switch {
	case err == nil:
		return Classified{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternalFailure}

	case errors.Is(err, entity.ErrValidation):
		return Classified{Kind: KindValidation, Status: http.StatusBadRequest, Message: validationMessage(err), Stage: stage}

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Classified{Kind: KindTimeout, Status: http.StatusGatewayTimeout, Message: MsgTimeout, Stage: stage}

	case errors.Is(err, entity.ErrTransport):
		msg := MsgUnreachable
		if stage != "" {
			msg = fmt.Sprintf("%s (%s step)", MsgUnreachable, stage)
		}
		return Classified{Kind: KindTransport, Status: http.StatusBadGateway, Message: msg, Stage: stage}

	case errors.Is(err, entity.ErrContent):
		msg := MsgReportFailed
		if stage != "" {
			msg = fmt.Sprintf("%s (%s step)", MsgDocumentFailed, stage)
		}
		return Classified{Kind: KindContent, Status: http.StatusBadGateway, Message: msg, Stage: stage}

	default:
		return Classified{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternalFailure, Stage: stage}
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrEmptyPrompt):
		return MsgEmptyPrompt
	case errors.Is(err, entity.ErrMissingFile):
		return MsgMissingFile
	case errors.Is(err, entity.ErrInvalidFile):
		return MsgInvalidFile
	case errors.Is(err, entity.ErrFileTooLarge):
		return MsgFileTooLarge
	case errors.Is(err, entity.ErrUnknownModel):
		return MsgUnknownModel
	default:
		return MsgInvalidInput
	}
}
