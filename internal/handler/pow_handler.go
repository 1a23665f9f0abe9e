package handler

import (
	"net/http"

	"bingohub/internal/pkg/errs"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/req"
	"bingohub/internal/pkg/resp"
)

// PowVerifyInput is a solved challenge.
type PowVerifyInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandlePowChallenge issues a nonce and the difficulty it must be solved at.
func HandlePowChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"difficulty": deps.Pow.Difficulty(),
			"required":   deps.Pow.Enabled(),
		}
		if deps.Pow.Enabled() {
			data["nonce"] = deps.Pow.Challenge()
		}
		resp.RespondSuccess(w, r, data)
	}
}

// HandlePowVerify trades a solved challenge for a single-use proof token.
func HandlePowVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PowVerifyInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Nonce == "" || input.Counter == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token, err := deps.Pow.Redeem(input.Nonce, input.Counter)
		if err != nil {
			logx.Warn("PoW verification failed", "error", err.Error())
			resp.RespondError(w, r, errs.Wrap(errs.ErrPowChallengeInvalid, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"token": token})
	}
}
