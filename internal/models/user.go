package models

// User is a dashboard login record. Records are provisioned out of band;
// the server only reads them.
type User struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	UserName string `bson:"userName" json:"userName"`
	// Password holds either a bcrypt hash or, for legacy records, the plaintext secret.
	Password string `bson:"password" json:"-"`
}
