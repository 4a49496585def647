package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/conversation"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/pipeline"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/sqlguard"
)

type askRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type queryRequest struct {
	SQL       string `json:"sql"`
	SessionID string `json:"session_id"`
}

type translateRequest struct {
	Question string `json:"question"`
}

type answerResponse struct {
	SessionID string `json:"session_id,omitempty"`
	pipeline.Answer
}

type translateResponse struct {
	SQL        string              `json:"sql"`
	Model      string              `json:"model,omitempty"`
	Statement  *sqlguard.Statement `json:"statement,omitempty"`
	DurationMS int64               `json:"duration_ms"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Answerer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "question answering is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request askRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	question := strings.TrimSpace(request.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	sessionID := resolveSession(deps, request.SessionID)
	answer, err := deps.Answerer.Ask(r.Context(), question, callOptions(r, sessionID)...)
	recordTurns(deps, sessionID, question, answer)
	writeAnswer(w, r, sessionID, answer, err)
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Answerer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query execution is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request queryRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	sessionID := ""
	if strings.TrimSpace(request.SessionID) != "" {
		sessionID = resolveSession(deps, request.SessionID)
	}
	answer, err := deps.Answerer.Run(r.Context(), request.SQL, callOptions(r, sessionID)...)
	recordTurns(deps, sessionID, answer.SQL, answer)
	writeAnswer(w, r, sessionID, answer, err)
}

func handleTranslate(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Answerer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", "query translation is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request translateRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid translate request body", false, map[string]any{"details": err.Error()})
		return
	}

	result, stmt, err := deps.Answerer.Translate(r.Context(), request.Question)
	if err != nil {
		extra := map[string]any{}
		if result.SQL != "" {
			extra["sql"] = result.SQL
		}
		var rejection *sqlguard.RejectionError
		var upstream *nl2sql.UpstreamError
		switch {
		case errors.Is(err, pipeline.ErrQuestionRequired):
			writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", err.Error(), false, nil)
		case errors.Is(err, pipeline.ErrTranslatorNotEnabled):
			writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", err.Error(), false, nil)
		case errors.As(err, &rejection):
			extra["reason"] = string(rejection.Reason)
			writeError(r.Context(), w, http.StatusUnprocessableEntity, "QUERY_REJECTED", err.Error(), false, extra)
		case errors.As(err, &upstream):
			writeError(r.Context(), w, http.StatusBadGateway, "GENERATION_FAILED", err.Error(), upstream.Retryable, extra)
		default:
			writeError(r.Context(), w, http.StatusBadGateway, "GENERATION_FAILED", err.Error(), false, extra)
		}
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		SQL:        result.SQL,
		Model:      result.Model,
		Statement:  stmt,
		DurationMS: result.Duration.Milliseconds(),
	})
}

func callOptions(r *http.Request, sessionID string) []pipeline.Option {
	opts := []pipeline.Option{pipeline.WithSession(sessionID)}
	if !mayMutate(r) {
		opts = append(opts, pipeline.ReadOnly())
	}
	return opts
}

func resolveSession(deps Dependencies, requested string) string {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		return requested
	}
	if deps.Conversations == nil {
		return ""
	}
	return conversation.NewSessionID()
}

// recordTurns appends the user's text and the assistant's reply to the session log.
func recordTurns(deps Dependencies, sessionID, content string, answer pipeline.Answer) {
	if deps.Conversations == nil || sessionID == "" || strings.TrimSpace(content) == "" {
		return
	}
	now := deps.now()
	_ = deps.Conversations.Append(sessionID, conversation.Turn{Role: conversation.RoleUser, Content: content, Timestamp: now})
	_ = deps.Conversations.Append(sessionID, conversation.Turn{
		Role:      conversation.RoleAssistant,
		Content:   assistantReply(answer),
		SQL:       answer.SQL,
		Table:     answer.Table,
		Timestamp: now,
	})
}

func assistantReply(answer pipeline.Answer) string {
	switch answer.Outcome {
	case pipeline.OutcomeOK:
		return fmt.Sprintf("Found %d rows.", answer.Table.Len())
	case pipeline.OutcomeEmpty:
		return "The query ran successfully but returned no results."
	case pipeline.OutcomeMutationOK:
		return answer.Message
	case pipeline.OutcomeGenerationFailed:
		return "Failed to generate SQL query: " + answer.Error
	default:
		return "Query failed: " + answer.Error
	}
}

// writeAnswer maps a pipeline outcome to a status code. Failures keep the generated SQL in the
// error context and the failure text verbatim in the message.
func writeAnswer(w http.ResponseWriter, r *http.Request, sessionID string, answer pipeline.Answer, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, answerResponse{SessionID: sessionID, Answer: answer})
		return
	}

	extra := map[string]any{"outcome": string(answer.Outcome)}
	if answer.SQL != "" {
		extra["sql"] = answer.SQL
	}
	if sessionID != "" {
		extra["session_id"] = sessionID
	}
	message := answer.Error
	if message == "" {
		message = err.Error()
	}

	var upstream *nl2sql.UpstreamError
	var rejection *sqlguard.RejectionError
	var execErr *query.ExecutionError
	switch {
	case errors.Is(err, pipeline.ErrQuestionRequired):
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", message, false, nil)
	case errors.Is(err, pipeline.ErrSQLRequired):
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", message, false, nil)
	case errors.Is(err, pipeline.ErrTranslatorNotEnabled):
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATE_NOT_CONFIGURED", message, false, extra)
	case errors.As(err, &upstream):
		writeError(r.Context(), w, http.StatusBadGateway, "GENERATION_FAILED", message, upstream.Retryable, extra)
	case errors.As(err, &rejection):
		extra["reason"] = string(rejection.Reason)
		status := http.StatusUnprocessableEntity
		if rejection.Reason == sqlguard.ReasonMutation {
			status = http.StatusForbidden
		}
		writeError(r.Context(), w, status, "QUERY_REJECTED", message, false, extra)
	case errors.As(err, &execErr):
		switch execErr.Kind {
		case query.ErrorConnectivity:
			writeError(r.Context(), w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", message, true, extra)
		case query.ErrorTimeout:
			writeError(r.Context(), w, http.StatusGatewayTimeout, "QUERY_TIMEOUT", message, true, extra)
		default:
			writeError(r.Context(), w, http.StatusUnprocessableEntity, "QUERY_FAILED", message, false, extra)
		}
	default:
		writeError(r.Context(), w, http.StatusInternalServerError, "ASK_FAILED", message, false, extra)
	}
}
