package messaging

type ChangeTopic string

const (
	OrderCreated ChangeTopic = "order_created"
	Tracking     ChangeTopic = "tracking"
)
