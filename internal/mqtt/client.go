package mqtt

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/lucheng0127/slackbot/internal/bot"
)

// Client MQTT 命令通道
// 从命令主题接收表单编码的请求，把渲染后的 JSON 发布到回复主题
type Client struct {
	broker        string
	commandTopic  string
	responseTopic string
	bot           *bot.Bot
	client        mqtt.Client
	logger        *zap.Logger
	connectChan   chan bool
}

// NewClient 创建 MQTT 客户端
func NewClient(broker, commandTopic, responseTopic string, b *bot.Bot, logger *zap.Logger) *Client {
	return &Client{
		broker:        broker,
		commandTopic:  commandTopic,
		responseTopic: responseTopic,
		bot:           b,
		logger:        logger,
		connectChan:   make(chan bool, 1),
	}
}

// Start 启动 MQTT 客户端
func (c *Client) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.broker)
	opts.SetClientID("slackbot")
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	c.client = mqtt.NewClient(opts)

	// 连接到 Broker
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	// 等待连接确认
	select {
	case <-c.connectChan:
		c.logger.Info("MQTT client connected", zap.String("broker", c.broker))
	case <-time.After(30 * time.Second):
		return fmt.Errorf("MQTT connection timeout")
	case <-ctx.Done():
		c.client.Disconnect(250)
		return nil
	}

	// 等待 context 取消
	<-ctx.Done()

	c.logger.Info("MQTT client shutting down")
	c.client.Disconnect(250)

	return nil
}

// onConnect 连接成功回调
func (c *Client) onConnect(client mqtt.Client) {
	if token := client.Subscribe(c.commandTopic, 0, c.onCommandMessage); token.Wait() && token.Error() != nil {
		c.logger.Error("failed to subscribe to command topic", zap.Error(token.Error()))
		return
	}

	c.logger.Info("subscribed to command topic", zap.String("topic", c.commandTopic))

	select {
	case c.connectChan <- true:
	default:
	}
}

// onConnectionLost 连接丢失回调
func (c *Client) onConnectionLost(client mqtt.Client, err error) {
	c.logger.Warn("MQTT connection lost", zap.Error(err))
}

// onCommandMessage 处理命令消息
func (c *Client) onCommandMessage(client mqtt.Client, msg mqtt.Message) {
	body, ok := c.process(context.Background(), msg)
	if !ok {
		return
	}

	token := client.Publish(c.responseTopic, 0, false, body)
	if token.Wait() && token.Error() != nil {
		c.logger.Error("failed to publish response",
			zap.String("topic", c.responseTopic),
			zap.Error(token.Error()),
		)
		return
	}

	c.logger.Debug("response published", zap.String("topic", c.responseTopic))
}

// process 执行命令，失败时不发布任何内容
func (c *Client) process(ctx context.Context, msg mqtt.Message) ([]byte, bool) {
	c.logger.Debug("received MQTT message",
		zap.String("topic", msg.Topic()),
		zap.ByteString("payload", msg.Payload()),
	)

	reply, err := c.bot.HandleRequest(ctx, msg.Payload(), "mqtt://"+msg.Topic())
	if err != nil {
		return nil, false
	}

	return reply.Body, true
}
