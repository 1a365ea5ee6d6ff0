package input

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsinghua-fib-lab/ocit2sumo/entity/ocit"
	"github.com/tsinghua-fib-lab/ocit2sumo/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// Load 加载OCIT记录
// 功能：根据配置从YAML记录文件或MongoDB加载信号组、相位、相位过渡与信号程序
// 参数：ctx-上下文，c-输入配置
// 返回：记录文档
// 算法说明：
// 1. 指定了记录文件则直接读取文件
// 2. 否则检查缓存目录，缓存中已有该组集合的记录时直接读取缓存
// 3. 连接MongoDB并行下载各集合（按_id排序以保持原文档顺序）
// 4. 启用缓存时将下载结果写入缓存
func Load(ctx context.Context, c config.Input) (*ocit.Document, error) {
	if c.File != "" {
		log.Infof("load records from file %s", c.File)
		return LoadFile(c.File)
	}

	cachePath := ""
	if preCheckCache(c.Cache) {
		cachePath = filepath.Join(c.Cache, cacheName(c))
		if _, err := os.Stat(cachePath); err == nil {
			log.Infof("load records from cache %s", cachePath)
			return LoadFile(cachePath)
		}
	}

	if c.SignalGroups == nil || c.Phases == nil || c.Transitions == nil {
		return nil, fmt.Errorf("%w: signal_groups, phases and transitions collections are required with uri", config.ErrInvalidConfig)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	defer client.Disconnect(context.Background())

	doc := &ocit.Document{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		doc.SignalGroups, err = download[ocit.SignalGroup](gCtx, client, *c.SignalGroups)
		return
	})
	g.Go(func() (err error) {
		doc.Phases, err = download[ocit.Phase](gCtx, client, *c.Phases)
		return
	})
	g.Go(func() (err error) {
		doc.Transitions, err = download[ocit.Transition](gCtx, client, *c.Transitions)
		return
	})
	if c.Programs != nil {
		g.Go(func() (err error) {
			doc.Programs, err = download[ocit.Program](gCtx, client, *c.Programs)
			return
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cachePath != "" {
		if err := SaveFile(cachePath, doc); err != nil {
			log.Errorf("failed to write cache %s: %v", cachePath, err)
		}
	}
	return doc, nil
}

// download 下载一个集合中的全部记录（泛型函数）
// 说明：按_id升序读取，记录顺序与写入顺序一致
func download[T any](ctx context.Context, client *mongo.Client, path config.InputPath) ([]T, error) {
	log.Infof("start fetching from %s.%s", path.GetDb(), path.GetColl())
	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find in %s.%s: %w", path.GetDb(), path.GetColl(), err)
	}
	res := make([]T, 0)
	if err := cur.All(ctx, &res); err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", path.GetDb(), path.GetColl(), err)
	}
	log.Infof("finish fetching %d records from %s.%s", len(res), path.GetDb(), path.GetColl())
	return res, nil
}

// LoadFile 从YAML记录文件加载
func LoadFile(path string) (*ocit.Document, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var doc ocit.Document
	if err := yaml.UnmarshalStrict(file, &doc); err != nil {
		return nil, fmt.Errorf("parse records %s: %w", path, err)
	}
	return &doc, nil
}

// SaveFile 将记录写入YAML文件
func SaveFile(path string, doc *ocit.Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// cacheName 缓存文件名，由各集合的db与col组成
func cacheName(c config.Input) string {
	parts := make([]string, 0, 4)
	for _, p := range []*config.InputPath{c.SignalGroups, c.Phases, c.Transitions, c.Programs} {
		if p != nil {
			parts = append(parts, p.GetDb()+"."+p.GetColl())
		}
	}
	return strings.Join(parts, "+") + ".yaml"
}

// preCheckCache 预检查缓存目录
// 功能：验证缓存目录的有效性，决定是否启用缓存功能
// 参数：cacheDir-缓存目录路径
// 返回：true表示启用缓存，false表示禁用缓存
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	}
	if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
		log.Infof("enable input cache at %s", cacheDir)
		return true
	}
	log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
	return false
}
