package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"wordchain/internal/dictionary"
	"wordchain/internal/models"
)

// Reply-speed windows measured from the start of the turn
const (
	fastReplyWindow   = 10 * time.Second
	mediumReplyWindow = 20 * time.Second
)

// State errors returned by the controller. Handlers map these onto
// HTTP status codes.
var (
	ErrNoActiveGame        = errors.New("no active game in this channel")
	ErrAlreadyActive       = errors.New("a game is already active in this channel")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrInsufficientPoints  = errors.New("not enough points")
	ErrNoOpeningWord       = errors.New("no opening word available")
)

// Points configures the point economy applied by the controller
type Points struct {
	Correct      int
	LongWord     int
	AdvancedWord int
	Wrong        int
	Timeout      int
	FastReply    int
	MediumReply  int
	SlowReply    int
}

// Config carries the controller's tunables
type Config struct {
	TurnTimeout time.Duration
	Points      Points
	HintCost    int
	PassCost    int
}

// SubmitResult is returned by SubmitWord. Points is the signed delta the
// submission applied to the durable ledger. BotMove is set when the bot
// replied immediately after an accepted word.
type SubmitResult struct {
	Outcome models.Outcome      `json:"outcome"`
	Points  int                 `json:"points"`
	Session *models.GameSession `json:"session"`
	BotMove *BotMove            `json:"bot_move,omitempty"`
}

// BotMove describes a word the automated player appended to the chain
type BotMove struct {
	Word   string `json:"word"`
	Passed bool   `json:"passed,omitempty"`
}

// Hint reveals the letter the next word must start with, plus an unused
// word from the static list that would satisfy the chain
type Hint struct {
	Letter  string `json:"letter"`
	Example string `json:"example,omitempty"`
	Cost    int    `json:"cost"`
}

// Controller serializes all game mutations per channel and owns the
// turn timers. Dictionary lookups run outside the channel's exclusive
// region; state is re-validated when the mutation re-enters it.
type Controller struct {
	store     Store
	validator *Validator
	scheduler *TurnScheduler
	fallback  *dictionary.FallbackSet
	cfg       Config

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

// NewController wires the controller and installs itself as the
// scheduler's timeout target
func NewController(store Store, validator *Validator, scheduler *TurnScheduler, fallback *dictionary.FallbackSet, cfg Config) *Controller {
	c := &Controller{
		store:     store,
		validator: validator,
		scheduler: scheduler,
		fallback:  fallback,
		cfg:       cfg,
		locks:     make(map[string]*sync.Mutex),
		now:       time.Now,
	}
	scheduler.SetTimeoutFunc(c.HandleTimeout)
	return c
}

// channelLock returns the channel's mutex, creating it on first use.
// Entries live for the life of the process: disposing one while a
// goroutine is still blocked on it would let a second mutex guard the
// same channel.
func (c *Controller) channelLock(channelID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[channelID] = lock
	}
	return lock
}

// CreateGame starts a session in a channel. An empty firstWord picks a
// random opening word from the language's word list. Bot challenges add
// the automated player as the second participant.
func (c *Controller) CreateGame(ctx context.Context, channelID, communityID, language, firstWord string, starter models.Player, botChallenge bool) (*models.GameSession, error) {
	if !c.supportsLanguage(language) {
		return nil, ErrUnsupportedLanguage
	}

	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyActive
	}

	word := normalizeWord(firstWord)
	if word == "" {
		word, err = c.randomOpeningWord(language)
		if err != nil {
			return nil, err
		}
	}

	participants := []models.Player{starter}
	if botChallenge {
		participants = append(participants, models.BotPlayer)
	}

	now := c.now()
	session := &models.GameSession{
		ChannelID:     channelID,
		CommunityID:   communityID,
		Language:      language,
		CurrentWord:   word,
		CurrentPlayer: starter,
		UsedWords:     []string{word},
		Participants:  participants,
		SessionScores: map[string]int{},
		StartedAt:     now,
		BotChallenge:  botChallenge,
		TurnStartedAt: now,
		TurnDeadline:  now.Add(c.cfg.TurnTimeout),
	}

	if err := c.store.Sessions().Create(session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.scheduler.Arm(channelID, starter, session.TurnCount, c.cfg.TurnTimeout)
	return session.Clone(), nil
}

// SubmitWord validates a word for the current turn and applies the
// result. The dictionary check runs without the channel lock held; the
// turn is re-validated before any state changes.
func (c *Controller) SubmitWord(ctx context.Context, channelID string, player models.Player, word string) (*SubmitResult, error) {
	lock := c.channelLock(channelID)

	lock.Lock()
	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		lock.Unlock()
		return nil, ErrNoActiveGame
	}
	if session.CurrentPlayer != player {
		lock.Unlock()
		return nil, ErrNotYourTurn
	}
	snapshot := session.Clone()
	fence := session.TurnCount
	lock.Unlock()

	outcome := c.validator.Validate(ctx, snapshot, word)

	lock.Lock()
	defer lock.Unlock()

	session, err = c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}
	// the turn moved while the dictionary check was in flight
	if session.TurnCount != fence || session.CurrentPlayer != player {
		return nil, ErrNotYourTurn
	}

	if !outcome.Accepted() {
		return c.applyRejection(session, player, word, outcome)
	}
	return c.applyAcceptance(session, player, word, outcome)
}

// applyRejection charges the wrong-answer penalty. The player keeps the
// turn and the running timer is left untouched.
func (c *Controller) applyRejection(session *models.GameSession, player models.Player, word string, outcome models.Outcome) (*SubmitResult, error) {
	updated := session.Clone()
	updated.SessionScores[player.ID] += c.cfg.Points.Wrong

	err := c.store.WithTx(func(tx Store) error {
		if err := tx.Sessions().Save(updated); err != nil {
			return err
		}
		if err := tx.Scores().AddPoints(player.ID, session.CommunityID, c.cfg.Points.Wrong); err != nil {
			return err
		}
		return tx.Scores().RecordWordOutcome(player.ID, session.CommunityID, normalizeWord(word), false)
	})
	if err != nil {
		return nil, fmt.Errorf("persist rejection: %w", err)
	}

	return &SubmitResult{
		Outcome: outcome,
		Points:  c.cfg.Points.Wrong,
		Session: updated.Clone(),
	}, nil
}

// applyAcceptance appends the word, awards points, advances the turn and
// re-arms the timer. Nothing mutates if the transaction fails.
func (c *Controller) applyAcceptance(session *models.GameSession, player models.Player, word string, outcome models.Outcome) (*SubmitResult, error) {
	normalized := normalizeWord(word)
	now := c.now()
	points := c.scoreAccepted(outcome, now.Sub(session.TurnStartedAt))

	updated := session.Clone()
	if !updated.HasParticipant(player) {
		updated.Participants = append(updated.Participants, player)
	}
	updated.CurrentWord = normalized
	updated.UsedWords = append(updated.UsedWords, normalized)
	updated.CurrentPlayer = updated.NextPlayer(player)
	updated.TurnCount++
	updated.TurnStartedAt = now
	updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)
	updated.SessionScores[player.ID] += points

	err := c.store.WithTx(func(tx Store) error {
		if err := tx.Sessions().Save(updated); err != nil {
			return err
		}
		if err := tx.Scores().AddPoints(player.ID, session.CommunityID, points); err != nil {
			return err
		}
		return tx.Scores().RecordWordOutcome(player.ID, session.CommunityID, normalized, true)
	})
	if err != nil {
		return nil, fmt.Errorf("persist accepted word: %w", err)
	}

	result := &SubmitResult{
		Outcome: outcome,
		Points:  points,
		Session: updated.Clone(),
	}

	c.scheduler.Cancel(session.ChannelID)

	if updated.CurrentPlayer.Bot {
		botMove, after, err := c.playBotTurn(updated)
		if err != nil {
			// the human's word is committed; the bot just forfeits its reply
			log.Printf("bot turn failed in channel %s: %v", session.ChannelID, err)
			c.scheduler.Arm(session.ChannelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
			return result, nil
		}
		result.BotMove = botMove
		result.Session = after.Clone()
		c.scheduler.Arm(session.ChannelID, after.CurrentPlayer, after.TurnCount, c.cfg.TurnTimeout)
		return result, nil
	}

	c.scheduler.Arm(session.ChannelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
	return result, nil
}

// playBotTurn makes the automated player answer immediately. The bot
// draws from the static word list, so no remote lookup happens inside
// the exclusive region. With no playable word left the bot passes and
// the turn returns to the next participant.
func (c *Controller) playBotTurn(session *models.GameSession) (*BotMove, *models.GameSession, error) {
	updated := session.Clone()
	now := c.now()

	word, ok := c.pickChainWord(updated)
	if !ok {
		updated.CurrentPlayer = updated.NextPlayer(models.BotPlayer)
		updated.TurnStartedAt = now
		updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)
		if err := c.store.Sessions().Save(updated); err != nil {
			return nil, nil, err
		}
		return &BotMove{Passed: true}, updated, nil
	}

	updated.CurrentWord = word
	updated.UsedWords = append(updated.UsedWords, word)
	updated.CurrentPlayer = updated.NextPlayer(models.BotPlayer)
	updated.TurnCount++
	updated.TurnStartedAt = now
	updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)
	updated.SessionScores[models.BotID] += c.cfg.Points.Correct

	if err := c.store.Sessions().Save(updated); err != nil {
		return nil, nil, err
	}
	return &BotMove{Word: word}, updated, nil
}

// pickChainWord chooses an unused chaining word from the static list,
// biased toward the longest candidates so the bot plays hard-to-continue
// words
func (c *Controller) pickChainWord(session *models.GameSession) (string, bool) {
	required := lastRune(session.CurrentWord)
	candidates := lo.Filter(c.fallback.Words(session.Language), func(word string, _ int) bool {
		return firstRune(word) == required && !session.HasUsedWord(word)
	})
	if len(candidates) == 0 {
		return "", false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i]) > utf8.RuneCountInString(candidates[j])
	})
	top := candidates
	if len(top) > 5 {
		top = top[:5]
	}
	return top[rand.Intn(len(top))], true
}

// HandleTimeout is invoked by the scheduler when a turn expires.
// Timeouts advance the turn pointer without consuming a turn count. The
// fire only counts once its arm is confirmed under the channel lock:
// the turn counter alone cannot expose a timer that was replaced by
// ArmTimer, PassTurn or a stop/create cycle while this fire waited for
// the lock.
func (c *Controller) HandleTimeout(channelID string, fence, gen int) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	if !c.scheduler.Confirm(channelID, gen) {
		return
	}

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		log.Printf("timeout in channel %s: load session: %v", channelID, err)
		return
	}
	if session == nil || session.TurnCount != fence {
		return
	}

	penalized := session.CurrentPlayer
	now := c.now()

	updated := session.Clone()
	updated.CurrentPlayer = updated.NextPlayer(penalized)
	updated.TurnStartedAt = now
	updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)
	updated.SessionScores[penalized.ID] += c.cfg.Points.Timeout

	err = c.store.WithTx(func(tx Store) error {
		if err := tx.Sessions().Save(updated); err != nil {
			return err
		}
		if penalized.Bot {
			return nil
		}
		return tx.Scores().AddPoints(penalized.ID, session.CommunityID, c.cfg.Points.Timeout)
	})
	if err != nil {
		// leave state untouched and give the same turn another full window
		log.Printf("timeout in channel %s: persist: %v", channelID, err)
		c.scheduler.Arm(channelID, penalized, fence, c.cfg.TurnTimeout)
		return
	}

	if updated.CurrentPlayer.Bot {
		_, after, err := c.playBotTurn(updated)
		if err != nil {
			log.Printf("bot turn failed in channel %s: %v", channelID, err)
			c.scheduler.Arm(channelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
			return
		}
		c.scheduler.Arm(channelID, after.CurrentPlayer, after.TurnCount, c.cfg.TurnTimeout)
		return
	}

	c.scheduler.Arm(channelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
}

// StopGame ends the session and returns a summary. The winner is the
// top session scorer; ties keep the earlier participant. Human
// participants get their games-played counter bumped.
func (c *Controller) StopGame(channelID string) (*models.GameSummary, error) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	summary := c.summarize(session)

	err = c.store.WithTx(func(tx Store) error {
		if err := tx.Sessions().Delete(channelID); err != nil {
			return err
		}
		for _, participant := range session.Participants {
			if participant.Bot {
				continue
			}
			if err := tx.Scores().IncrementGamesPlayed(participant.ID, session.CommunityID); err != nil {
				return err
			}
		}
		record := models.GameRecord{
			ChannelID:   session.ChannelID,
			CommunityID: session.CommunityID,
			Language:    session.Language,
			TotalTurns:  summary.TurnCount,
			TotalWords:  summary.WordCount,
			StartedAt:   summary.StartedAt,
			EndedAt:     summary.EndedAt,
		}
		if summary.Winner != nil {
			record.WinnerID = summary.Winner.ID
		}
		_, err := tx.History().Record(record)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("archive game: %w", err)
	}

	c.scheduler.Cancel(channelID)
	return summary, nil
}

func (c *Controller) summarize(session *models.GameSession) *models.GameSummary {
	summary := &models.GameSummary{
		ChannelID:   session.ChannelID,
		CommunityID: session.CommunityID,
		Language:    session.Language,
		TurnCount:   session.TurnCount,
		WordCount:   len(session.UsedWords),
		StartedAt:   session.StartedAt,
		EndedAt:     c.now(),
	}

	// the first participant seeds the running best, so a session where
	// every score is zero or negative still names its top scorer; ties
	// keep the earlier participant
	var best int
	for i, participant := range session.Participants {
		score := session.SessionScores[participant.ID]
		if i == 0 || score > best {
			best = score
			winner := participant
			summary.Winner = &winner
			summary.WinnerScore = score
		}
	}
	return summary
}

// Status returns a snapshot of the channel's session
func (c *Controller) Status(channelID string) (*models.GameSession, error) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}
	return session.Clone(), nil
}

// ArmTimer starts timing a turn for the given player independently of a
// word submission. The player becomes the current player.
func (c *Controller) ArmTimer(channelID string, player models.Player) (*models.GameSession, error) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	now := c.now()
	updated := session.Clone()
	if !updated.HasParticipant(player) {
		updated.Participants = append(updated.Participants, player)
	}
	updated.CurrentPlayer = player
	updated.TurnStartedAt = now
	updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)

	if err := c.store.Sessions().Save(updated); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.scheduler.Arm(channelID, player, updated.TurnCount, c.cfg.TurnTimeout)
	return updated.Clone(), nil
}

// PassTurn spends points to skip the caller's turn without a penalty
func (c *Controller) PassTurn(channelID string, player models.Player) (*models.GameSession, error) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}
	if session.CurrentPlayer != player {
		return nil, ErrNotYourTurn
	}

	balance, err := c.store.Scores().GetPoints(player.ID, session.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	if balance < c.cfg.PassCost {
		return nil, ErrInsufficientPoints
	}

	now := c.now()
	updated := session.Clone()
	updated.CurrentPlayer = updated.NextPlayer(player)
	updated.TurnStartedAt = now
	updated.TurnDeadline = now.Add(c.cfg.TurnTimeout)
	updated.SessionScores[player.ID] -= c.cfg.PassCost

	err = c.store.WithTx(func(tx Store) error {
		if err := tx.Sessions().Save(updated); err != nil {
			return err
		}
		return tx.Scores().AddPoints(player.ID, session.CommunityID, -c.cfg.PassCost)
	})
	if err != nil {
		return nil, fmt.Errorf("persist pass: %w", err)
	}

	c.scheduler.Cancel(channelID)

	if updated.CurrentPlayer.Bot {
		_, after, err := c.playBotTurn(updated)
		if err != nil {
			log.Printf("bot turn failed in channel %s: %v", channelID, err)
			c.scheduler.Arm(channelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
			return updated.Clone(), nil
		}
		c.scheduler.Arm(channelID, after.CurrentPlayer, after.TurnCount, c.cfg.TurnTimeout)
		return after.Clone(), nil
	}

	c.scheduler.Arm(channelID, updated.CurrentPlayer, updated.TurnCount, c.cfg.TurnTimeout)
	return updated.Clone(), nil
}

// BuyHint spends points to reveal the required starting letter
func (c *Controller) BuyHint(channelID string, player models.Player) (*Hint, error) {
	lock := c.channelLock(channelID)
	lock.Lock()
	defer lock.Unlock()

	session, err := c.store.Sessions().Get(channelID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveGame
	}

	balance, err := c.store.Scores().GetPoints(player.ID, session.CommunityID)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	if balance < c.cfg.HintCost {
		return nil, ErrInsufficientPoints
	}

	if err := c.store.Scores().AddPoints(player.ID, session.CommunityID, -c.cfg.HintCost); err != nil {
		return nil, fmt.Errorf("persist hint: %w", err)
	}

	hint := &Hint{
		Letter: string(lastRune(session.CurrentWord)),
		Cost:   c.cfg.HintCost,
	}
	if example, ok := c.pickChainWord(session); ok {
		hint.Example = example
	}
	return hint, nil
}

// Shutdown stops every pending turn timer
func (c *Controller) Shutdown() {
	c.scheduler.Shutdown()
}

func (c *Controller) scoreAccepted(outcome models.Outcome, elapsed time.Duration) int {
	points := c.cfg.Points.Correct
	if outcome.LongWord {
		points += c.cfg.Points.LongWord
	}
	if outcome.AdvancedWord {
		points += c.cfg.Points.AdvancedWord
	}
	switch {
	case elapsed < fastReplyWindow:
		points += c.cfg.Points.FastReply
	case elapsed < mediumReplyWindow:
		points += c.cfg.Points.MediumReply
	default:
		points += c.cfg.Points.SlowReply
	}
	return points
}

func (c *Controller) supportsLanguage(language string) bool {
	for _, known := range c.fallback.Languages() {
		if known == language {
			return true
		}
	}
	return false
}

func (c *Controller) randomOpeningWord(language string) (string, error) {
	words := c.fallback.Words(language)
	if len(words) == 0 {
		return "", ErrNoOpeningWord
	}
	return words[rand.Intn(len(words))], nil
}
