package mq

import (
	"periscope-sol/internal/idl"
	"periscope-sol/internal/types"
	"periscope-sol/internal/utils"
)

// BuildIdlJob 把规范格式 IDL 打包为一条消息。
// 同一程序总是落在同一分区，key 为程序地址（base58）。
func BuildIdlJob(topic string, partitions int, program types.Pubkey, doc *idl.Document) (*KafkaJob, error) {
	value, err := doc.MarshalCanonical()
	if err != nil {
		return nil, err
	}
	return &KafkaJob{
		Topic:     topic,
		Partition: int32(utils.PartitionHashBytes(program[:], uint32(partitions))),
		Key:       []byte(program.String()),
		Value:     value,
	}, nil
}
