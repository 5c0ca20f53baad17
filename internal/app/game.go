package app

import (
	"fmt"

	"cardi/internal/domain"
)

// StartGame deals a fresh game. Calling it on a room that already started is
// a no-op with no events, not an error. The opening table card is drawn
// repeatedly until a non-action card appears; rejected action cards stay in
// the played pile beneath it.
func (s *Service) StartGame(room *domain.Room) ([]Event, error) {
	if room.Phase != domain.PhaseLobby {
		return nil, nil
	}
	if len(room.Players) < MinPlayersToStart {
		return nil, ErrTooFewPlayers
	}

	deck := domain.NewDeck()
	s.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	room.DrawPile = deck
	room.PlayedPile = nil
	room.ClearRoundState()

	for _, p := range room.Players {
		p.Hand = nil
		p.DeclaredCardi = false
	}
	for i := 0; i < InitialHandSize; i++ {
		for _, p := range room.Players {
			c, ok := room.Draw(s.rng)
			if !ok {
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}

	for {
		c, ok := room.Draw(s.rng)
		if !ok {
			break
		}
		room.PushPlayed(c)
		if !domain.IsActionValue(c.Value) {
			break
		}
	}

	room.Phase = domain.PhasePlaying
	room.CurrentIndex = s.rng.Intn(len(room.Players))

	starter := room.CurrentPlayer()
	events := []Event{
		{Kind: EventGameStart, Payload: PlayerEventPayload{PlayerID: starter.ID, Username: starter.Username}},
		s.broadcastSnapshot(room, fmt.Sprintf("game on, %s starts", starter.Username)),
	}
	return events, nil
}

// PlayCards applies a play identified by card ids, with an optional chosen
// suit accompanying a wild ace. Validation fully precedes mutation.
func (s *Service) PlayCards(room *domain.Room, playerID string, cardIDs []string, chosenSuit domain.Suit) ([]Event, error) {
	if room.Phase != domain.PhasePlaying {
		return nil, ErrGameNotStarted
	}
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if room.CurrentPlayer() != p {
		return nil, ErrNotYourTurn
	}
	if len(p.Hand) == 0 {
		return nil, ErrMustDrawFirst
	}
	if room.HasActed && !room.QuestionPending {
		return nil, ErrAlreadyActed
	}

	cards, err := cardsFromHand(p.Hand, cardIDs)
	if err != nil {
		return nil, err
	}
	top, _ := room.TopCard()
	if !domain.CanPlayMultiple(cards, top, room) {
		return nil, ErrInvalidPlay
	}

	last := cards[len(cards)-1]
	winAttempt := len(cards) == len(p.Hand) && p.DeclaredCardi
	if winAttempt && !domain.IsAllowedToFinishWith(last) {
		return nil, ErrIllegalFinish
	}

	penaltyWasActive := room.DrawPenalty > 0
	p.Hand = removeByID(p.Hand, cardIDs)
	for _, c := range cards {
		room.PushPlayed(c)
	}

	events := []Event{{
		Kind:    EventCardPlayed,
		Payload: CardPlayedPayload{PlayerID: p.ID, Username: p.Username, Cards: cards},
	}}

	if winAttempt {
		room.Phase = domain.PhaseFinished
		events = append(events,
			Event{Kind: EventGameWin, Payload: GameWinPayload{PlayerID: p.ID, Username: p.Username}},
			s.broadcastSnapshot(room, fmt.Sprintf("%s wins!", p.Username)),
		)
		return events, nil
	}

	// A play answers any pending question; Q/8 effects below may raise a
	// fresh one, leaving control with the same player.
	room.QuestionPending = false
	domain.ApplyEffect(room, last, penaltyWasActive, chosenSuit)

	if domain.IsQuestionCard(last) {
		events = append(events, s.broadcastSnapshot(room,
			fmt.Sprintf("%s asks a question", p.Username)))
		return events, nil
	}

	room.HasActed = true
	if domain.AutoAdvances(last.Value) {
		room.AdvanceTurn()
	}
	events = append(events, s.broadcastSnapshot(room,
		fmt.Sprintf("%s played %d card(s)", p.Username, len(cards))))
	return events, nil
}

// DrawCard resolves the three draw shapes in order: answering a question with
// a draw, recovering from an empty hand, and the normal (possibly penalized)
// draw.
func (s *Service) DrawCard(room *domain.Room, playerID string) ([]Event, error) {
	if room.Phase != domain.PhasePlaying {
		return nil, ErrGameNotStarted
	}
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if room.CurrentPlayer() != p {
		return nil, ErrNotYourTurn
	}

	if room.QuestionPending {
		drawn := s.drawInto(room, p, 1)
		room.QuestionPending = false
		room.HasActed = true
		room.AdvanceTurn()
		return s.drawEvents(room, p, drawn, fmt.Sprintf("%s drew rather than answer", p.Username)), nil
	}

	if room.HasActed {
		return nil, ErrAlreadyActed
	}

	if len(p.Hand) == 0 {
		drawn := s.drawInto(room, p, 1)
		p.DeclaredCardi = false
		room.DrawPenalty = 0
		room.AdvanceTurn()
		return s.drawEvents(room, p, drawn, fmt.Sprintf("%s drew back in", p.Username)), nil
	}

	if room.Rules.MaxHandSize > 0 && len(p.Hand) >= room.Rules.MaxHandSize {
		room.HasActed = true
		events := []Event{s.broadcastSnapshot(room, fmt.Sprintf("%s is stuck at the hand limit", p.Username))}
		return events, ErrHandSizeLimit
	}

	count := room.DrawPenalty
	if count < 1 {
		count = 1
	}
	drawn := s.drawInto(room, p, count)
	p.DeclaredCardi = false
	room.DrawPenalty = 0
	room.AdvanceTurn()
	return s.drawEvents(room, p, drawn, fmt.Sprintf("%s drew %d card(s)", p.Username, drawn)), nil
}

// PassTurn hands the turn over. A pass is only legal after an action, never
// as a substitute for one.
func (s *Service) PassTurn(room *domain.Room, playerID string) ([]Event, error) {
	if room.Phase != domain.PhasePlaying {
		return nil, ErrGameNotStarted
	}
	p := room.PlayerByID(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	if room.CurrentPlayer() != p {
		return nil, ErrNotYourTurn
	}
	if !room.HasActed {
		return nil, ErrMustActFirst
	}

	room.AdvanceTurn()
	events := []Event{
		{Kind: EventTurnPassed, Payload: PlayerEventPayload{PlayerID: p.ID, Username: p.Username}},
		s.broadcastSnapshot(room, fmt.Sprintf("%s passed", p.Username)),
	}
	return events, nil
}

func (s *Service) drawInto(room *domain.Room, p *domain.Player, count int) int {
	drawn := 0
	for i := 0; i < count; i++ {
		c, ok := room.Draw(s.rng)
		if !ok {
			break
		}
		p.Hand = append(p.Hand, c)
		drawn++
	}
	return drawn
}

func (s *Service) drawEvents(room *domain.Room, p *domain.Player, count int, message string) []Event {
	return []Event{
		{Kind: EventCardDrawn, Payload: CardDrawnPayload{PlayerID: p.ID, Username: p.Username, Count: count}},
		s.broadcastSnapshot(room, message),
	}
}

// cardsFromHand resolves ids to hand cards, preserving the requested order.
func cardsFromHand(hand []domain.Card, cardIDs []string) ([]domain.Card, error) {
	if len(cardIDs) == 0 {
		return nil, ErrInvalidPlay
	}
	byID := make(map[string]domain.Card, len(hand))
	for _, c := range hand {
		byID[c.ID] = c
	}
	cards := make([]domain.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		c, ok := byID[id]
		if !ok {
			return nil, ErrInvalidPlay
		}
		cards = append(cards, c)
		delete(byID, id)
	}
	return cards, nil
}

func removeByID(hand []domain.Card, cardIDs []string) []domain.Card {
	drop := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		drop[id] = true
	}
	kept := hand[:0]
	for _, c := range hand {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	return kept
}
