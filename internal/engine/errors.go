package engine

import (
	"errors"

	"pandemic/internal/errx"
)

// Error families. Every specific error below is derived from exactly one of
// them, so callers can branch with errors.Is on the family.
var (
	ErrSetup         = errx.NewBiz("SETUP_ERROR", "invalid game setup")
	ErrIllegalAction = errx.NewBiz("ILLEGAL_ACTION", "illegal action")
	ErrGameLost      = errx.NewBiz("GAME_LOST", "the game is lost")
)

var (
	ErrInvalidPlayerCount = ErrSetup.Sub("SETUP_PLAYER_COUNT", "players must be between 2 and 4")
	ErrInvalidDifficulty  = ErrSetup.Sub("SETUP_DIFFICULTY", "difficulty must be between 4 and 6")
	ErrDataInvalid        = ErrSetup.Sub("SETUP_DATA_INVALID", "malformed city data")
	ErrUnknownStartCity   = ErrSetup.Sub("SETUP_START_CITY", "start city is not on the board")
	ErrNotEnoughCards     = ErrSetup.Sub("SETUP_NOT_ENOUGH_CARDS", "not enough city cards for this setup")
)

var (
	ErrNotYourTurn       = ErrIllegalAction.Sub("NOT_YOUR_TURN", "not your turn")
	ErrWrongPhase        = ErrIllegalAction.Sub("WRONG_PHASE", "wrong phase for this action")
	ErrNoActionsLeft     = ErrIllegalAction.Sub("NO_ACTIONS_LEFT", "no actions left this turn")
	ErrInvalidAction     = ErrIllegalAction.Sub("INVALID_ACTION", "invalid action")
	ErrUnknownCity       = ErrIllegalAction.Sub("UNKNOWN_CITY", "no such city")
	ErrUnknownPlayer     = ErrIllegalAction.Sub("UNKNOWN_PLAYER", "no such player")
	ErrNotConnected      = ErrIllegalAction.Sub("NOT_CONNECTED", "cities are not connected")
	ErrSameCity          = ErrIllegalAction.Sub("SAME_CITY", "already in that city")
	ErrCardNotInHand     = ErrIllegalAction.Sub("CARD_NOT_IN_HAND", "card not in hand")
	ErrNoResearchStation = ErrIllegalAction.Sub("NO_RESEARCH_STATION", "no research station")
	ErrStationExists     = ErrIllegalAction.Sub("STATION_EXISTS", "city already has a research station")
	ErrStationLimit      = ErrIllegalAction.Sub("STATION_LIMIT", "all research stations are in play; name one to relocate")
	ErrNoCubes           = ErrIllegalAction.Sub("NO_CUBES", "no cubes of that color here")
	ErrNotSameLocation   = ErrIllegalAction.Sub("NOT_SAME_LOCATION", "players are not in the same city")
	ErrAlreadyCured      = ErrIllegalAction.Sub("ALREADY_CURED", "disease is already cured")
	ErrCureCards         = ErrIllegalAction.Sub("CURE_CARDS", "a cure needs exactly 5 distinct city cards of the disease color")
	ErrHandWithinLimit   = ErrIllegalAction.Sub("HAND_WITHIN_LIMIT", "hand is already within the limit")
)

var (
	ErrEmptyDeck       = ErrGameLost.Sub("EMPTY_DECK", "player deck exhausted")
	ErrSupplyExhausted = ErrGameLost.Sub("SUPPLY_EXHAUSTED", "no disease cubes left in the supply")
	ErrOutbreakLimit   = ErrGameLost.Sub("OUTBREAK_LIMIT", "outbreak limit reached")
)

var (
	// ErrGameWon is recorded in the Outcome when every disease is cured.
	ErrGameWon = errx.NewBiz("GAME_WON", "all diseases cured")
	// ErrGameOver is returned by every call once the game has ended.
	ErrGameOver = errx.NewBiz("GAME_OVER", "the game is over")
)

func IsIllegalAction(err error) bool { return errors.Is(err, ErrIllegalAction) }

func IsSetupError(err error) bool { return errors.Is(err, ErrSetup) }

func IsLoss(err error) bool { return errors.Is(err, ErrGameLost) }
