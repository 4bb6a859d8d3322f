// Copyright 2021 Converter Systems LLC. All rights reserved.

package server

import (
	"sync"
	"time"
)

// Scheduler shares one PollGroup among all listeners with the same interval.
type Scheduler struct {
	sync.Mutex
	server      *Server
	tickers     map[time.Duration]*PollGroup
	minInterval time.Duration
}

// NewScheduler returns a Scheduler that hands polls to the worker pool of the server.
func NewScheduler(server *Server) *Scheduler {
	s := &Scheduler{
		server:      server,
		tickers:     make(map[time.Duration]*PollGroup),
		minInterval: server.minPublishingInterval,
	}
	return s
}

// GetPollGroup returns the PollGroup of the interval. Intervals below the minimum are raised to the minimum.
func (s *Scheduler) GetPollGroup(interval time.Duration) *PollGroup {
	s.Lock()
	defer s.Unlock()
	if interval < s.minInterval {
		interval = s.minInterval
	}
	if t, ok := s.tickers[interval]; ok {
		return t
	}
	t := NewPollGroup(interval, s.server.closing, s.server.submit)
	s.tickers[interval] = t
	return t
}

// PollGroup calls Poll of each subscribed listener on every tick of its interval.
// Polls are handed to submit, so a slow listener does not delay the ticker.
type PollGroup struct {
	sync.Mutex
	cancellationCh <-chan struct{}
	interval       time.Duration
	submit         func(func())
	subs           map[PollListener]struct{}
}

// NewPollGroup starts a ticker with the interval that runs until cancellationCh is closed.
func NewPollGroup(interval time.Duration, cancellationCh <-chan struct{}, submit func(func())) *PollGroup {
	b := &PollGroup{
		cancellationCh: cancellationCh,
		interval:       interval,
		submit:         submit,
		subs:           map[PollListener]struct{}{},
	}
	go b.run()
	return b
}

// Interval returns the interval of the PollGroup.
func (b *PollGroup) Interval() time.Duration {
	return b.interval
}

func (b *PollGroup) run() {
	ticker := time.NewTicker(b.interval)
	for {
		select {
		case <-b.cancellationCh:
			ticker.Stop()
			b.Lock()
			for sub := range b.subs {
				delete(b.subs, sub)
			}
			b.Unlock()
			return
		case <-ticker.C:
			b.Lock()
			listeners := make([]PollListener, 0, len(b.subs))
			for sub := range b.subs {
				listeners = append(listeners, sub)
			}
			b.Unlock()
			for _, listener := range listeners {
				b.submit(listener.Poll)
			}
		}
	}
}

func (b *PollGroup) Subscribe(listener PollListener) {
	b.Lock()
	b.subs[listener] = struct{}{}
	b.Unlock()
}

func (b *PollGroup) Unsubscribe(listener PollListener) {
	b.Lock()
	delete(b.subs, listener)
	b.Unlock()
}

type PollListener interface {
	Poll()
}
