package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
	"github.com/crashbonus/crash-staking-ledger/pkg"
)

const callerHeader = "X-Caller"

type openStakeRequest struct {
	Account        string `json:"account"`
	Amount         string `json:"amount"`
	DurationMonths uint32 `json:"duration_months"`
}

type openStakeResponse struct {
	StakeID types.StakeID `json:"stake_id"`
}

type closeStakeResponse struct {
	Amount          sdkmath.Int `json:"amount"`
	Reward          sdkmath.Int `json:"reward"`
	Payout          sdkmath.Int `json:"payout"`
	ReleaseFraction uint64      `json:"release_fraction"`
}

type crashEventRequest struct {
	Big    bool `json:"big"`
	Medium bool `json:"medium"`
	Small  bool `json:"small"`
}

func (h *Handler) healthcheck(r *http.Request) (*Result, *types.Error) {
	return NewResult("ok"), nil
}

func (h *Handler) openStake(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}

	var req openStakeRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	account, err := parseAccount(req.Account)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, account); err != nil {
		return nil, err
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, fmt.Sprintf("invalid amount %q", req.Amount))
	}

	id, err := h.service.OpenStake(r.Context(), account, amount, req.DurationMonths)
	if err != nil {
		return nil, err
	}

	result := NewResult(openStakeResponse{StakeID: id})
	result.Status = http.StatusCreated
	return result, nil
}

func (h *Handler) closeStake(r *http.Request) (*Result, *types.Error) {
	caller, err := callerOf(r)
	if err != nil {
		return nil, err
	}

	account, id, err := stakeKey(r)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(caller, account); err != nil {
		return nil, err
	}

	quote, err := h.service.CloseStake(r.Context(), account, id)
	if err != nil {
		return nil, err
	}

	return NewResult(closeStakeResponse{
		Amount:          quote.Principal,
		Reward:          quote.Reward,
		Payout:          quote.Payout,
		ReleaseFraction: quote.ReleaseFraction,
	}), nil
}

func (h *Handler) listStakes(r *http.Request) (*Result, *types.Error) {
	account, err := parseAccount(chi.URLParam(r, "account"))
	if err != nil {
		return nil, err
	}

	stakes := h.service.ListStakes(account)
	if stakes == nil {
		stakes = []types.Stake{}
	}
	return NewResult(stakes), nil
}

func (h *Handler) getStake(r *http.Request) (*Result, *types.Error) {
	account, id, err := stakeKey(r)
	if err != nil {
		return nil, err
	}

	stake, err := h.service.GetStake(account, id)
	if err != nil {
		return nil, err
	}
	return NewResult(stake), nil
}

func (h *Handler) penalty(r *http.Request) (*Result, *types.Error) {
	account, id, err := stakeKey(r)
	if err != nil {
		return nil, err
	}

	fraction, err := h.service.Penalty(account, id)
	if err != nil {
		return nil, err
	}
	return NewResult(map[string]uint64{"release_fraction": fraction}), nil
}

func (h *Handler) bonusAPY(r *http.Request) (*Result, *types.Error) {
	account, id, err := stakeKey(r)
	if err != nil {
		return nil, err
	}

	bonus, err := h.service.BonusAPY(account, id)
	if err != nil {
		return nil, err
	}
	return NewResult(map[string]uint64{"bonus_apy": bonus}), nil
}

func (h *Handler) quote(r *http.Request) (*Result, *types.Error) {
	account, id, err := stakeKey(r)
	if err != nil {
		return nil, err
	}

	quote, err := h.service.Quote(account, id)
	if err != nil {
		return nil, err
	}
	return NewResult(quote), nil
}

func (h *Handler) recordCrashEvent(r *http.Request) (*Result, *types.Error) {
	reporter, err := callerOf(r)
	if err != nil {
		return nil, err
	}

	var req crashEventRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	counters, err := h.service.RecordCrashEvent(r.Context(), reporter, req.Big, req.Medium, req.Small)
	if err != nil {
		return nil, err
	}
	return NewResult(counters), nil
}

func (h *Handler) crashCounters(r *http.Request) (*Result, *types.Error) {
	return NewResult(h.service.CrashCounters()), nil
}

func (h *Handler) stats(r *http.Request) (*Result, *types.Error) {
	return NewResult(h.service.Stats()), nil
}

func decodeBody(r *http.Request, v any) *types.Error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return types.NewError(http.StatusBadRequest, types.BadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func parseAccount(s string) (common.Address, *types.Error) {
	account, err := pkg.ParseAccount(s)
	if err != nil {
		return common.Address{}, types.NewError(http.StatusBadRequest, types.BadRequest, err)
	}
	return account, nil
}

// callerOf returns the account the request acts on behalf of.
func callerOf(r *http.Request) (common.Address, *types.Error) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		return common.Address{}, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, callerHeader+" header is required")
	}
	return parseAccount(caller)
}

// requireOwner rejects callers acting on stakes of another account.
func requireOwner(caller, account common.Address) *types.Error {
	if caller != account {
		return types.NewForbiddenError(fmt.Errorf("%s may not act on stakes of %s", caller.Hex(), account.Hex()))
	}
	return nil
}

func stakeKey(r *http.Request) (common.Address, types.StakeID, *types.Error) {
	account, err := parseAccount(chi.URLParam(r, "account"))
	if err != nil {
		return common.Address{}, 0, err
	}

	id, parseErr := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if parseErr != nil {
		return common.Address{}, 0, types.NewError(http.StatusBadRequest, types.BadRequest, errors.New("invalid stake id"))
	}
	return account, types.StakeID(id), nil
}
