package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpavlenko/curex/internal/common"
	"github.com/dpavlenko/curex/internal/server/models"
)

type registerRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountView is the client-visible shape of an account. The password hash
// never leaves the server.
type accountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(account *models.Account) accountView {
	return accountView{ID: account.ID, Email: account.Email, CreatedAt: account.CreatedAt}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	account, token, err := s.accounts.Register(c.Request.Context(), req.Email, req.Password, req.PasswordConfirmation)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorEmailTaken):
			conflicting(c, "email already taken")
		case errors.Is(err, common.ErrorValidation):
			unprocessable(c, err.Error(), nil)
		default:
			s.logger.Error(c.Request.Context(), "registration failed", "error", err)
			serverError(c, "could not register account")
		}
		return
	}

	success(c, "account registered", gin.H{
		"account": viewOf(account),
		"token":   token,
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	account, token, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// one message for unknown email and wrong password alike
		if errors.Is(err, common.ErrorUnauthorized) {
			unauthorized(c, "invalid email or password")
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err)
		serverError(c, "could not log in")
		return
	}

	success(c, "login successful", gin.H{
		"account": viewOf(account),
		"token":   token,
	})
}

func (s *Server) handleExchange(c *gin.Context) {
	base := c.Query("base_currency")
	target := c.Query("target_currency")
	if base == "" {
		badRequest(c, "base_currency is required")
		return
	}
	if target == "" {
		badRequest(c, "target_currency is required")
		return
	}

	body, err := s.exchange.Latest(c.Request.Context(), base, target)
	if err != nil {
		s.respondUpstreamFailure(c, err)
		return
	}

	success(c, "exchange rate fetched", upstreamBody(body))
}

func (s *Server) handleHistory(c *gin.Context) {
	base := c.Query("base_currency")
	fromDate := c.Query("from_date")
	toDate := c.Query("to_date")
	if base == "" {
		badRequest(c, "base_currency is required")
		return
	}
	if fromDate == "" {
		badRequest(c, "from_date is required")
		return
	}
	if toDate == "" {
		badRequest(c, "to_date is required")
		return
	}

	body, err := s.exchange.History(c.Request.Context(), base, fromDate, toDate)
	if err != nil {
		s.respondUpstreamFailure(c, err)
		return
	}

	success(c, "exchange history fetched", upstreamBody(body))
}

func (s *Server) handleCurrencyInfo(c *gin.Context) {
	currency := c.Param("currency")
	if currency == "" {
		badRequest(c, "currency is required")
		return
	}

	body, err := s.exchange.Info(c.Request.Context(), currency)
	if err != nil {
		s.respondUpstreamFailure(c, err)
		return
	}

	success(c, "currency info fetched", upstreamBody(body))
}

// respondUpstreamFailure maps exchange client errors to the envelope. A
// provider failure passes the provider's body through to the API client;
// a 402 from the provider keeps its payment-required meaning. Transport
// errors stay opaque.
func (s *Server) respondUpstreamFailure(c *gin.Context, err error) {
	var upstreamErr *common.UpstreamError
	if errors.As(err, &upstreamErr) {
		s.logger.Warn(c.Request.Context(), "upstream rejected request",
			"status", upstreamErr.StatusCode)
		if upstreamErr.StatusCode == http.StatusPaymentRequired {
			paymentRequired(c, "exchange provider rejected the request", upstreamBody(upstreamErr.Body))
			return
		}
		unprocessable(c, "exchange provider rejected the request", upstreamBody(upstreamErr.Body))
		return
	}

	s.logger.Error(c.Request.Context(), "upstream call failed", "error", err)
	serverError(c, "could not reach exchange provider")
}
