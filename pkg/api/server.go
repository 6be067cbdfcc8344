package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/chat/threads)
	GetThreads(w http.ResponseWriter, r *http.Request)
	// (POST /api/chat/conversations)
	CreateConversation(w http.ResponseWriter, r *http.Request)
	// (GET /api/chat/conversations/{conversation_id}/messages)
	GetMessages(w http.ResponseWriter, r *http.Request, conversationId string)
	// (POST /api/chat/conversations/{conversation_id}/messages)
	SendMessage(w http.ResponseWriter, r *http.Request, conversationId string)
	// (POST /api/chat/conversations/{conversation_id}/read)
	MarkRead(w http.ResponseWriter, r *http.Request, conversationId string)
	// (GET /api/chat/unread)
	GetUnreadCount(w http.ResponseWriter, r *http.Request)
	// (POST /api/chat/conversations/{conversation_id}/exchange-requests)
	CreateExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string)
	// (POST /api/chat/conversations/{conversation_id}/exchange-requests/{message_id}/cancel)
	CancelExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string, messageId string)
	// (POST /api/chat/conversations/{conversation_id}/exchange-requests/{message_id}/confirm)
	ConfirmExchangeRequest(w http.ResponseWriter, r *http.Request, conversationId string, messageId string)
	// (GET /api/chat/exchange-history)
	GetExchangeHistory(w http.ResponseWriter, r *http.Request, params GetExchangeHistoryParams)
	// (GET /api/chat/token/connect)
	GetConnectToken(w http.ResponseWriter, r *http.Request)
	// (GET /api/chat/conversations/{conversation_id}/token/subscribe)
	GetSubscribeToken(w http.ResponseWriter, r *http.Request, conversationId string)
	// (POST /api/chat/token/subscribe/batch)
	GetBatchSubscribeTokens(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

func (siw *ServerInterfaceWrapper) GetThreads(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetThreads(w, r)
	})
}

func (siw *ServerInterfaceWrapper) CreateConversation(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateConversation(w, r)
	})
}

func (siw *ServerInterfaceWrapper) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetMessages(w, r, conversationId)
	})
}

func (siw *ServerInterfaceWrapper) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SendMessage(w, r, conversationId)
	})
}

func (siw *ServerInterfaceWrapper) MarkRead(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.MarkRead(w, r, conversationId)
	})
}

func (siw *ServerInterfaceWrapper) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetUnreadCount(w, r)
	})
}

func (siw *ServerInterfaceWrapper) CreateExchangeRequest(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CreateExchangeRequest(w, r, conversationId)
	})
}

func (siw *ServerInterfaceWrapper) CancelExchangeRequest(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	messageId, ok := siw.pathParam(w, r, "message_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.CancelExchangeRequest(w, r, conversationId, messageId)
	})
}

func (siw *ServerInterfaceWrapper) ConfirmExchangeRequest(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	messageId, ok := siw.pathParam(w, r, "message_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ConfirmExchangeRequest(w, r, conversationId, messageId)
	})
}

func (siw *ServerInterfaceWrapper) GetExchangeHistory(w http.ResponseWriter, r *http.Request) {
	var params GetExchangeHistoryParams

	err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetExchangeHistory(w, r, params)
	})
}

func (siw *ServerInterfaceWrapper) GetConnectToken(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetConnectToken(w, r)
	})
}

func (siw *ServerInterfaceWrapper) GetSubscribeToken(w http.ResponseWriter, r *http.Request) {
	conversationId, ok := siw.pathParam(w, r, "conversation_id")
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSubscribeToken(w, r, conversationId)
	})
}

func (siw *ServerInterfaceWrapper) GetBatchSubscribeTokens(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetBatchSubscribeTokens(w, r)
	})
}

func (siw *ServerInterfaceWrapper) pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string

	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return "", false
	}
	return value, true
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	var handler http.Handler = fn
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching the OpenAPI definition based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/threads", wrapper.GetThreads)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations", wrapper.CreateConversation)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/conversations/{conversation_id}/messages", wrapper.GetMessages)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations/{conversation_id}/messages", wrapper.SendMessage)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations/{conversation_id}/read", wrapper.MarkRead)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/unread", wrapper.GetUnreadCount)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations/{conversation_id}/exchange-requests", wrapper.CreateExchangeRequest)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations/{conversation_id}/exchange-requests/{message_id}/cancel", wrapper.CancelExchangeRequest)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/conversations/{conversation_id}/exchange-requests/{message_id}/confirm", wrapper.ConfirmExchangeRequest)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/exchange-history", wrapper.GetExchangeHistory)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/token/connect", wrapper.GetConnectToken)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/chat/conversations/{conversation_id}/token/subscribe", wrapper.GetSubscribeToken)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/chat/token/subscribe/batch", wrapper.GetBatchSubscribeTokens)
	})

	return r
}
