package data

import "fmt"

// Stored rows are re-validated on every read because nothing but this
// service enforces the schema invariants end to end. A violation is
// reported as ErrCorruptRecord and treated as data corruption.

func (w *Wallet) Validate() error {
	if w.UserID == "" {
		return fmt.Errorf("%w: wallet has empty user id", ErrCorruptRecord)
	}
	if w.Balance.IsNegative() {
		return fmt.Errorf("%w: wallet %s has negative balance %s", ErrCorruptRecord, w.UserID, w.Balance)
	}
	for _, transaction := range w.Transactions {
		if !transaction.Type.Valid() {
			return fmt.Errorf("%w: wallet %s has transaction of unknown type %q", ErrCorruptRecord, w.UserID, transaction.Type)
		}
	}
	return nil
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: order has empty id", ErrCorruptRecord)
	}
	if o.UserID == "" {
		return fmt.Errorf("%w: order %s has empty payer id", ErrCorruptRecord, o.ID)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: order %s has unknown status %q", ErrCorruptRecord, o.ID, o.Status)
	}
	if o.Fee.IsNegative() {
		return fmt.Errorf("%w: order %s has negative fee %s", ErrCorruptRecord, o.ID, o.Fee)
	}
	return nil
}

func (p *UserProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: user profile has empty id", ErrCorruptRecord)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: user %s has unknown role %q", ErrCorruptRecord, p.ID, p.Role)
	}
	return nil
}
