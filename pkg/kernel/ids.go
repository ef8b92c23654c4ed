package kernel

// Typed identifiers shared across modules. They are plain strings under
// the hood (UUIDs in practice) but the distinct types keep a user id from
// ever being passed where an instance id is expected.

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

type TenantID string

func NewTenantID(id string) TenantID { return TenantID(id) }
func (t TenantID) String() string    { return string(t) }
func (t TenantID) IsEmpty() bool     { return string(t) == "" }

type InstanceID string

func NewInstanceID(id string) InstanceID { return InstanceID(id) }
func (i InstanceID) String() string      { return string(i) }
func (i InstanceID) IsEmpty() bool       { return string(i) == "" }

type ConversationID string

func NewConversationID(id string) ConversationID { return ConversationID(id) }
func (c ConversationID) String() string          { return string(c) }
func (c ConversationID) IsEmpty() bool           { return string(c) == "" }

type BotID string

func NewBotID(id string) BotID { return BotID(id) }
func (b BotID) String() string { return string(b) }
func (b BotID) IsEmpty() bool  { return string(b) == "" }
