package domain

// Mutation events published on the shared event bus after a service
// commits a change. Every event implements MutationEvent so a single
// subscriber can observe all care-console writes.

// MutationEvent is the closed set of events this module publishes.
type MutationEvent interface{ careMutation() }

type GroupCreatedEvent struct{ Result Group }
type GroupUpdatedEvent struct{ Old, Result Group }
type GroupDeletedEvent struct{ Result Group }

type TeamCreatedEvent struct{ Result Team }
type TeamUpdatedEvent struct{ Old, Result Team }
type TeamDeletedEvent struct{ Result Team }

type OfficeCreatedEvent struct{ Result Office }
type OfficeUpdatedEvent struct{ Old, Result Office }
type OfficeDeletedEvent struct{ Result Office }

type StaffCreatedEvent struct{ Result Staff }
type StaffUpdatedEvent struct{ Old, Result Staff }
type StaffDeletedEvent struct{ Result Staff }

type UserCreatedEvent struct{ Result User }
type UserUpdatedEvent struct{ Old, Result User }
type UserDeletedEvent struct{ Result User }

type AdminCreatedEvent struct{ Result Admin }
type AdminUpdatedEvent struct{ Old, Result Admin }
type AdminDeletedEvent struct{ Result Admin }

func (GroupCreatedEvent) careMutation()  {}
func (GroupUpdatedEvent) careMutation()  {}
func (GroupDeletedEvent) careMutation()  {}
func (TeamCreatedEvent) careMutation()   {}
func (TeamUpdatedEvent) careMutation()   {}
func (TeamDeletedEvent) careMutation()   {}
func (OfficeCreatedEvent) careMutation() {}
func (OfficeUpdatedEvent) careMutation() {}
func (OfficeDeletedEvent) careMutation() {}
func (StaffCreatedEvent) careMutation()  {}
func (StaffUpdatedEvent) careMutation()  {}
func (StaffDeletedEvent) careMutation()  {}
func (UserCreatedEvent) careMutation()   {}
func (UserUpdatedEvent) careMutation()   {}
func (UserDeletedEvent) careMutation()   {}
func (AdminCreatedEvent) careMutation()  {}
func (AdminUpdatedEvent) careMutation()  {}
func (AdminDeletedEvent) careMutation()  {}
