package domain

// Mutation events published on the shared event bus after a service
// commits a change.

type MerchantCreatedEvent struct{ Result Merchant }
type MerchantUpdatedEvent struct{ Old, Result Merchant }
type MerchantDeletedEvent struct{ Result Merchant }

type ShopCreatedEvent struct{ Result Shop }
type ShopUpdatedEvent struct{ Old, Result Shop }
type ShopDeletedEvent struct{ Result Shop }

type CouponCreatedEvent struct{ Result Coupon }
type CouponUpdatedEvent struct{ Old, Result Coupon }
type CouponDeletedEvent struct{ Result Coupon }

// MutationEvent is the closed set of events this module publishes; a
// single subscriber can observe all merchant-console writes through it.
type MutationEvent interface{ merchantMutation() }

func (MerchantCreatedEvent) merchantMutation() {}
func (MerchantUpdatedEvent) merchantMutation() {}
func (MerchantDeletedEvent) merchantMutation() {}
func (ShopCreatedEvent) merchantMutation()     {}
func (ShopUpdatedEvent) merchantMutation()     {}
func (ShopDeletedEvent) merchantMutation()     {}
func (CouponCreatedEvent) merchantMutation()   {}
func (CouponUpdatedEvent) merchantMutation()   {}
func (CouponDeletedEvent) merchantMutation()   {}
